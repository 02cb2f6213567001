package dashboard

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/export"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/stats"
	"github.com/trezcool/masomo-dashboard/core/view"
)

// ClassRoster is a class with its teacher and students resolved.
type ClassRoster struct {
	school.Class
	Teacher string        `json:"teacher"`
	Roster  []school.User `json:"roster"`
	Missing []string      `json:"missing,omitempty"` // roster IDs with no matching user
}

type DirectoryData struct {
	Filter   school.UserFilter   `json:"filter"`
	Users    []school.User       `json:"users"`
	ByRole   map[school.Role]int `json:"by_role"` // over every user, not the filtered list
	Classes  []ClassRoster       `json:"classes"`
	Failures []string            `json:"failures,omitempty"`
}

// DirectoryView administers users and classes.
type DirectoryView struct {
	deps  Deps
	model *view.Model[DirectoryData]

	mu       sync.Mutex
	filter   school.UserFilter
	ordering []core.Ordering
}

func NewDirectoryView(deps Deps) *DirectoryView {
	return &DirectoryView{deps: deps, model: view.NewModel[DirectoryData]()}
}

func userKey(u school.User, field string) (string, bool) {
	switch field {
	case "name":
		return textKey(u.Name()), true
	case "first_name":
		return textKey(u.FirstName), true
	case "last_name":
		return textKey(u.LastName), true
	case "email":
		return textKey(u.Email), true
	case "role":
		return string(u.Role), true
	case "created_at":
		return u.CreatedAt.Time.Format("2006-01-02T15:04:05"), true
	}
	return "", false
}

func (v *DirectoryView) Load(ctx context.Context, filter school.UserFilter, ordering []core.Ordering) (view.Snapshot[DirectoryData], error) {
	filter.Clean()
	if filter.Role != "" && !filter.Role.Valid() {
		return v.model.Snapshot(), core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}
	v.mu.Lock()
	v.filter, v.ordering = filter, ordering
	v.mu.Unlock()

	return v.model.Load(ctx, func(ctx context.Context) (DirectoryData, error) {
		data := DirectoryData{Filter: filter}
		var classes []school.Class
		failures := view.Parallel(ctx,
			view.NewCall("users", func(ctx context.Context) (err error) {
				data.Users, err = v.deps.API.ListUsers(ctx, school.UserFilter{})
				return err
			}),
			view.NewCall("classes", func(ctx context.Context) (err error) {
				classes, err = v.deps.API.ListClasses(ctx)
				return err
			}),
		)
		var err error
		if data.Failures, err = settle(failures, 2, "users"); err != nil {
			return data, err
		}

		byID := make(map[string]school.User, len(data.Users))
		for _, u := range data.Users {
			byID[u.ID] = u
		}
		for _, c := range classes {
			cr := ClassRoster{Class: c}
			if t, ok := byID[c.TeacherID.String]; ok {
				cr.Teacher = t.Name()
			}
			for _, id := range c.Students {
				if u, ok := byID[id]; ok {
					cr.Roster = append(cr.Roster, u)
				} else {
					cr.Missing = append(cr.Missing, id)
				}
			}
			data.Classes = append(data.Classes, cr)
		}

		data.ByRole = stats.UsersByRole(data.Users)
		data.Users = stats.SearchUsers(data.Users, filter.Search)
		if filter.Role != "" {
			data.Users = stats.Filter(data.Users, func(u school.User) bool { return u.Role == filter.Role })
		}
		core.SortBy(data.Users, ordering, userKey)
		return data, nil
	})
}

func (v *DirectoryView) Reload(ctx context.Context) (view.Snapshot[DirectoryData], error) {
	v.mu.Lock()
	filter, ordering := v.filter, v.ordering
	v.mu.Unlock()
	return v.Load(ctx, filter, ordering)
}

func (v *DirectoryView) Snapshot() view.Snapshot[DirectoryData] {
	return v.model.Snapshot()
}

func (v *DirectoryView) CreateUser(ctx context.Context, nu school.NewUser) (view.Snapshot[DirectoryData], error) {
	if err := nu.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.CreateUser(ctx, nu); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "creating user")
	}
	return v.Reload(ctx)
}

func (v *DirectoryView) UpdateUser(ctx context.Context, id string, uu school.UpdateUser) (view.Snapshot[DirectoryData], error) {
	if err := uu.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.UpdateUser(ctx, id, uu); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "updating user")
	}
	return v.Reload(ctx)
}

func (v *DirectoryView) DeleteUser(ctx context.Context, id string) (view.Snapshot[DirectoryData], error) {
	if err := v.deps.API.DeleteUser(ctx, id); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "deleting user")
	}
	return v.Reload(ctx)
}

func (v *DirectoryView) CreateClass(ctx context.Context, nc school.NewClass) (view.Snapshot[DirectoryData], error) {
	if err := nc.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.CreateClass(ctx, nc); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "creating class")
	}
	return v.Reload(ctx)
}

func (v *DirectoryView) DeleteClass(ctx context.Context, id string) (view.Snapshot[DirectoryData], error) {
	if err := v.deps.API.DeleteClass(ctx, id); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "deleting class")
	}
	return v.Reload(ctx)
}

func (v *DirectoryView) AddStudent(ctx context.Context, classID string, rc school.RosterChange) (view.Snapshot[DirectoryData], error) {
	if err := rc.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if err := v.deps.API.AddStudentToClass(ctx, classID, rc); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "adding student")
	}
	return v.Reload(ctx)
}

func (v *DirectoryView) RemoveStudent(ctx context.Context, classID, studentID string) (view.Snapshot[DirectoryData], error) {
	if err := v.deps.API.RemoveStudentFromClass(ctx, classID, studentID); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "removing student")
	}
	return v.Reload(ctx)
}

// ImportResult reports a roster import. Skipped holds the rows that matched no student.
type ImportResult struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

// ImportRoster adds the students listed in the first sheet of an XLSX workbook to a class.
// Rows are matched on an "ID" or "Email" column against the students. The view is
// reloaded once, after every row was submitted.
func (v *DirectoryView) ImportRoster(ctx context.Context, classID string, r io.Reader) (ImportResult, error) {
	var res ImportResult
	table, err := export.ReadXLSX(r)
	if err != nil {
		return res, err
	}
	idCol, emailCol := -1, -1
	for i, h := range table.Headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id", "student id", "student_id":
			idCol = i
		case "email":
			emailCol = i
		}
	}
	if idCol < 0 && emailCol < 0 {
		return res, core.NewValidationError(nil, core.FieldError{Field: "file", Error: `the sheet needs an "ID" or an "Email" column`})
	}

	users, err := v.deps.API.ListUsers(ctx, school.UserFilter{Role: school.RoleStudent})
	if err != nil {
		return res, errors.Wrap(err, "loading students")
	}
	students := make(map[string]string, 2*len(users)) // id or lowered email -> id
	for _, u := range users {
		students[u.ID] = u.ID
		students[strings.ToLower(u.Email)] = u.ID
	}
	cell := func(row []string, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	for _, row := range table.Rows {
		key := cell(row, idCol)
		if key == "" {
			key = strings.ToLower(cell(row, emailCol))
		}
		if key == "" {
			continue
		}
		id, ok := students[key]
		if !ok {
			res.Skipped = append(res.Skipped, key)
			continue
		}
		if err := v.deps.API.AddStudentToClass(ctx, classID, school.RosterChange{StudentID: id}); err != nil {
			return res, errors.Wrapf(err, "adding student %s", id)
		}
		res.Added = append(res.Added, id)
	}
	_, err = v.Reload(ctx)
	return res, err
}

func (v *DirectoryView) Table() export.Table {
	return v.TableOf(v.model.Snapshot())
}

func (v *DirectoryView) TableOf(snap view.Snapshot[DirectoryData]) export.Table {
	return export.UsersTable(snap.Data.Users)
}
