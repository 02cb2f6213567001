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

type GradesData struct {
	Filter   school.GradeFilter    `json:"filter"`
	Grades   []school.Grade        `json:"grades"`
	Courses  []school.Course       `json:"courses"`
	Classes  []school.Class        `json:"classes"`
	Average  float64               `json:"average"`
	Averages []stats.CourseAverage `json:"averages"`
	Failures []string              `json:"failures,omitempty"`
}

type GradesView struct {
	deps  Deps
	model *view.Model[GradesData]

	mu       sync.Mutex
	filter   school.GradeFilter
	ordering []core.Ordering
}

func NewGradesView(deps Deps) *GradesView {
	return &GradesView{deps: deps, model: view.NewModel[GradesData]()}
}

func gradeKey(g school.Grade, field string) (string, bool) {
	switch field {
	case "date":
		return g.Date, true
	case "score":
		return numKey(g.Percent()), true
	case "term":
		return textKey(g.Term), true
	case "course":
		return g.CourseID, true
	case "student":
		return g.StudentID, true
	}
	return "", false
}

func (v *GradesView) Load(ctx context.Context, filter school.GradeFilter, ordering []core.Ordering) (view.Snapshot[GradesData], error) {
	filter.StudentID = core.CleanString(filter.StudentID)
	filter.CourseID = core.CleanString(filter.CourseID)
	filter.ClassID = core.CleanString(filter.ClassID)
	filter.Term = core.CleanString(filter.Term)
	v.mu.Lock()
	v.filter, v.ordering = filter, ordering
	v.mu.Unlock()

	return v.model.Load(ctx, func(ctx context.Context) (GradesData, error) {
		data := GradesData{Filter: filter}
		failures := view.Parallel(ctx,
			view.NewCall("grades", func(ctx context.Context) (err error) {
				data.Grades, err = v.deps.API.ListGrades(ctx, filter)
				return err
			}),
			view.NewCall("courses", func(ctx context.Context) (err error) {
				data.Courses, err = v.deps.API.ListCourses(ctx, school.CourseFilter{ClassID: filter.ClassID})
				return err
			}),
			view.NewCall("classes", func(ctx context.Context) (err error) {
				data.Classes, err = v.deps.API.ListClasses(ctx)
				return err
			}),
		)
		var err error
		if data.Failures, err = settle(failures, 3, "grades"); err != nil {
			return data, err
		}
		core.SortBy(data.Grades, ordering, gradeKey)
		data.Average = stats.GradeAverage(data.Grades)
		data.Averages = stats.CourseAverages(data.Grades)
		return data, nil
	})
}

func (v *GradesView) Reload(ctx context.Context) (view.Snapshot[GradesData], error) {
	v.mu.Lock()
	filter, ordering := v.filter, v.ordering
	v.mu.Unlock()
	return v.Load(ctx, filter, ordering)
}

func (v *GradesView) Snapshot() view.Snapshot[GradesData] {
	return v.model.Snapshot()
}

func (v *GradesView) RecordGrade(ctx context.Context, ng school.NewGrade) (view.Snapshot[GradesData], error) {
	if err := ng.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.CreateGrade(ctx, ng); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "recording grade")
	}
	return v.Reload(ctx)
}

// UpdateGrade replaces the grade with the API's updated copy and recomputes the averages.
func (v *GradesView) UpdateGrade(ctx context.Context, id string, gu school.GradeUpdate) (view.Snapshot[GradesData], error) {
	if err := gu.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	updated, err := v.deps.API.UpdateGrade(ctx, id, gu)
	if err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "updating grade")
	}
	return v.model.Update(func(data *GradesData) {
		data.Grades = append([]school.Grade(nil), data.Grades...)
		for i := range data.Grades {
			if data.Grades[i].ID == id {
				data.Grades[i] = updated
			}
		}
		data.Average = stats.GradeAverage(data.Grades)
		data.Averages = stats.CourseAverages(data.Grades)
	}), nil
}

func (v *GradesView) Table() export.Table {
	return v.TableOf(v.model.Snapshot())
}

func (v *GradesView) TableOf(snap view.Snapshot[GradesData]) export.Table {
	return export.GradesTable(snap.Data.Grades)
}
