package dashboard

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/export"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/stats"
	"github.com/trezcool/masomo-dashboard/core/view"
)

type FamilyData struct {
	Filter        school.RelationshipFilter `json:"filter"`
	Relationships []school.Relationship     `json:"relationships"`
	Parents       []school.User             `json:"parents"`
	Students      []school.User             `json:"students"`
	Failures      []string                  `json:"failures,omitempty"`
}

// FamilyView manages the parent-child links.
type FamilyView struct {
	deps  Deps
	model *view.Model[FamilyData]

	mu       sync.Mutex
	filter   school.RelationshipFilter
	ordering []core.Ordering
}

func NewFamilyView(deps Deps) *FamilyView {
	return &FamilyView{deps: deps, model: view.NewModel[FamilyData]()}
}

func relationshipKey(r school.Relationship, field string) (string, bool) {
	switch field {
	case "parent":
		return textKey(r.ParentName.String), true
	case "student":
		return textKey(r.StudentName.String), true
	case "relationship":
		return textKey(r.Relationship), true
	}
	return "", false
}

func (v *FamilyView) Load(ctx context.Context, filter school.RelationshipFilter, ordering []core.Ordering) (view.Snapshot[FamilyData], error) {
	filter.Search = core.CleanString(filter.Search)
	v.mu.Lock()
	v.filter, v.ordering = filter, ordering
	v.mu.Unlock()

	return v.model.Load(ctx, func(ctx context.Context) (FamilyData, error) {
		data := FamilyData{Filter: filter}
		failures := view.Parallel(ctx,
			view.NewCall("relationships", func(ctx context.Context) (err error) {
				data.Relationships, err = v.deps.API.ListRelationships(ctx, filter)
				return err
			}),
			view.NewCall("parents", func(ctx context.Context) (err error) {
				data.Parents, err = v.deps.API.ListUsers(ctx, school.UserFilter{Role: school.RoleParent})
				return err
			}),
			view.NewCall("students", func(ctx context.Context) (err error) {
				data.Students, err = v.deps.API.ListUsers(ctx, school.UserFilter{Role: school.RoleStudent})
				return err
			}),
		)
		var err error
		if data.Failures, err = settle(failures, 3); err != nil {
			return data, err
		}

		data.Relationships = stats.Filter(data.Relationships, func(r school.Relationship) bool {
			return stats.MatchText(filter.Search, r.ParentName.String, r.StudentName.String, r.Relationship)
		})
		core.SortBy(data.Relationships, ordering, relationshipKey)
		return data, nil
	})
}

func (v *FamilyView) Reload(ctx context.Context) (view.Snapshot[FamilyData], error) {
	v.mu.Lock()
	filter, ordering := v.filter, v.ordering
	v.mu.Unlock()
	return v.Load(ctx, filter, ordering)
}

func (v *FamilyView) Snapshot() view.Snapshot[FamilyData] {
	return v.model.Snapshot()
}

// Link creates a parent-child relationship then reloads.
func (v *FamilyView) Link(ctx context.Context, nr school.NewRelationship) (view.Snapshot[FamilyData], error) {
	if err := nr.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.CreateRelationship(ctx, nr); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "creating relationship")
	}
	return v.Reload(ctx)
}

// Unlink deletes the relationship then reloads.
func (v *FamilyView) Unlink(ctx context.Context, id string) (view.Snapshot[FamilyData], error) {
	if err := v.deps.API.DeleteRelationship(ctx, id); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "deleting relationship")
	}
	return v.Reload(ctx)
}

func (v *FamilyView) Table() export.Table {
	return v.TableOf(v.model.Snapshot())
}

func (v *FamilyView) TableOf(snap view.Snapshot[FamilyData]) export.Table {
	return export.RelationshipsTable(snap.Data.Relationships)
}
