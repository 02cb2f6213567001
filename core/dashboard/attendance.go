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

type AttendanceData struct {
	Filter   school.AttendanceFilter `json:"filter"`
	Classes  []school.Class          `json:"classes"`
	Students []school.User           `json:"students"`
	Records  []school.Attendance     `json:"records"`
	Stats    school.AttendanceStats  `json:"stats"`   // as computed by the API
	Summary  stats.AttendanceCounts  `json:"summary"` // over Records
	Failures []string                `json:"failures,omitempty"`
}

type AttendanceView struct {
	deps  Deps
	model *view.Model[AttendanceData]

	mu       sync.Mutex
	filter   school.AttendanceFilter
	ordering []core.Ordering
}

func NewAttendanceView(deps Deps) *AttendanceView {
	return &AttendanceView{deps: deps, model: view.NewModel[AttendanceData]()}
}

func attendanceKey(a school.Attendance, field string) (string, bool) {
	switch field {
	case "date":
		return a.Date, true
	case "status":
		return string(a.Status), true
	case "student":
		return textKey(a.StudentName.String), true
	case "class":
		return a.ClassID.String, true
	}
	return "", false
}

// Load fetches classes and students, then the records and the API statistics of the filter.
// The date defaults to today. Search is matched locally on the student name.
func (v *AttendanceView) Load(ctx context.Context, filter school.AttendanceFilter, ordering []core.Ordering) (view.Snapshot[AttendanceData], error) {
	if err := filter.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if filter.Date == "" && filter.From == "" && filter.To == "" {
		filter.Date = v.deps.today()
	}

	v.mu.Lock()
	v.filter, v.ordering = filter, ordering
	v.mu.Unlock()

	return v.model.Load(ctx, func(ctx context.Context) (AttendanceData, error) {
		data := AttendanceData{Filter: filter}

		failures := view.Parallel(ctx,
			view.NewCall("classes", func(ctx context.Context) (err error) {
				data.Classes, err = v.deps.API.ListClasses(ctx)
				return err
			}),
			view.NewCall("students", func(ctx context.Context) (err error) {
				data.Students, err = v.deps.API.ListUsers(ctx, school.UserFilter{Role: school.RoleStudent})
				return err
			}),
		)
		// records and stats depend on the resolved filter only
		for name, err := range view.Parallel(ctx,
			view.NewCall("records", func(ctx context.Context) (err error) {
				data.Records, err = v.deps.API.ListAttendances(ctx, filter)
				return err
			}),
			view.NewCall("stats", func(ctx context.Context) (err error) {
				data.Stats, err = v.deps.API.AttendanceStats(ctx, filter)
				return err
			}),
		) {
			failures[name] = err
		}

		var err error
		if data.Failures, err = settle(failures, 4, "records"); err != nil {
			return data, err
		}

		data.Records = stats.Filter(data.Records, func(a school.Attendance) bool {
			return stats.MatchText(filter.Search, a.StudentName.String, a.StudentID)
		})
		core.SortBy(data.Records, ordering, attendanceKey)
		data.Summary = stats.AttendanceSummary(data.Records)
		return data, nil
	})
}

// Reload repeats the last Load.
func (v *AttendanceView) Reload(ctx context.Context) (view.Snapshot[AttendanceData], error) {
	v.mu.Lock()
	filter, ordering := v.filter, v.ordering
	v.mu.Unlock()
	return v.Load(ctx, filter, ordering)
}

func (v *AttendanceView) Snapshot() view.Snapshot[AttendanceData] {
	return v.model.Snapshot()
}

// UpdateStatus changes the status of one record and patches that record only.
// On failure the view is left untouched.
func (v *AttendanceView) UpdateStatus(ctx context.Context, id string, au school.AttendanceUpdate) (view.Snapshot[AttendanceData], error) {
	if err := au.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	updated, err := v.deps.API.UpdateAttendance(ctx, id, au)
	if err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "updating attendance")
	}
	return v.model.Update(func(data *AttendanceData) {
		data.Records = append([]school.Attendance(nil), data.Records...) // snapshots share the old slice
		for i := range data.Records {
			if data.Records[i].ID != id {
				continue
			}
			data.Records[i].Status = au.Status
			if updated.Notes.Valid {
				data.Records[i].Notes = updated.Notes
			}
		}
		data.Summary = stats.AttendanceSummary(data.Records)
	}), nil
}

// MarkClass records the attendance of a class for a date, then reloads.
func (v *AttendanceView) MarkClass(ctx context.Context, nb school.NewAttendanceBulk) (view.Snapshot[AttendanceData], error) {
	if err := nb.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.BulkCreateAttendances(ctx, nb); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "marking attendance")
	}
	return v.Reload(ctx)
}

// Table returns the displayed records.
func (v *AttendanceView) Table() export.Table {
	return v.TableOf(v.model.Snapshot())
}

// TableOf returns the records of snap, eg. the one a Load returned.
func (v *AttendanceView) TableOf(snap view.Snapshot[AttendanceData]) export.Table {
	return export.AttendanceTable(snap.Data.Records)
}
