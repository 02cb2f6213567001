package dashboard

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/export"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
	"github.com/trezcool/masomo-dashboard/services/api"
	"github.com/trezcool/masomo-dashboard/tests"
)

func recordIDs(records []school.Attendance) []string {
	ids := make([]string, 0, len(records))
	for _, a := range records {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestAttendanceView_Load(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	ctx := fake.Ctx(testutil.AdminID)

	tests := []struct {
		name     string
		filter   school.AttendanceFilter
		ordering string
		wantIDs  []string
	}{
		{name: "defaults to today", wantIDs: []string{"a-1", "a-2", "a-3"}},
		{name: "by date", filter: school.AttendanceFilter{Date: "2024-03-02"}, wantIDs: []string{"a-4"}},
		{name: "absent only", filter: school.AttendanceFilter{Date: testutil.SeedDate, Status: school.AttendanceAbsent}, wantIDs: []string{"a-2", "a-3"}},
		{name: "by class", filter: school.AttendanceFilter{Date: testutil.SeedDate, ClassID: testutil.Class6B}, wantIDs: []string{"a-3"}},
		{name: "search", filter: school.AttendanceFilter{Date: testutil.SeedDate, Search: "  CHANEL "}, wantIDs: []string{"a-2"}},
		{name: "ordered by status desc", filter: school.AttendanceFilter{Date: testutil.SeedDate}, ordering: "-status,student", wantIDs: []string{"a-1", "a-2", "a-3"}},
		{name: "ordered by student desc", filter: school.AttendanceFilter{Date: testutil.SeedDate}, ordering: "-student", wantIDs: []string{"a-3", "a-2", "a-1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := NewAttendanceView(deps)
			snap, err := v.Load(ctx, tc.filter, core.ParseOrderings(tc.ordering))
			require.NoError(t, err)
			assert.Equal(t, view.Ready, snap.State)
			assert.Equal(t, tc.wantIDs, recordIDs(snap.Data.Records))
			for _, a := range snap.Data.Records {
				if tc.filter.Status != "" {
					assert.Equal(t, tc.filter.Status, a.Status)
				}
			}
			assert.Len(t, snap.Data.Classes, 2)
			assert.Len(t, snap.Data.Students, 3)
			assert.Empty(t, snap.Data.Failures)
		})
	}
}

func TestAttendanceView_Load_serverStats(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	v := NewAttendanceView(deps)

	snap, err := v.Load(fake.Ctx(testutil.AdminID), school.AttendanceFilter{Date: testutil.SeedDate}, nil)
	require.NoError(t, err)

	// the API total is shown as is, even though it differs from the category counts
	assert.Equal(t, 10, snap.Data.Stats.Total)
	assert.Equal(t, 1, snap.Data.Stats.Present)
	assert.Equal(t, 2, snap.Data.Stats.Absent)

	assert.Equal(t, 3, snap.Data.Summary.Records)
	assert.Equal(t, 1, snap.Data.Summary.Present)
	assert.Equal(t, 2, snap.Data.Summary.Absent)
	assert.Equal(t, 33.3, snap.Data.Summary.Rate)
}

func TestAttendanceView_Load_invalidFilter(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	v := NewAttendanceView(deps)

	_, err := v.Load(fake.Ctx(testutil.AdminID), school.AttendanceFilter{Status: "sleeping"}, nil)
	require.Error(t, err)
	fields, ok := core.TranslateErrors(err, core.NewTranslator("en"))
	require.True(t, ok)
	assert.Contains(t, fields, "status")
	assert.Zero(t, fake.Calls("GET /attendances"), "no request is sent for an invalid filter")
}

func TestAttendanceView_Load_partialFailure(t *testing.T) {
	tests := []struct {
		name         string
		fail         []string
		code         int
		wantState    view.State
		wantFailures []string
		wantAuth     bool
	}{
		{name: "classes failed", fail: []string{"GET /classes"}, code: http.StatusInternalServerError, wantState: view.Ready, wantFailures: []string{"classes"}},
		{name: "stats failed", fail: []string{"GET /attendances/stats"}, code: http.StatusBadGateway, wantState: view.Ready, wantFailures: []string{"stats"}},
		{name: "students and classes failed", fail: []string{"GET /classes", "GET /users"}, code: http.StatusInternalServerError, wantState: view.Ready, wantFailures: []string{"classes", "students"}},
		{name: "records failed", fail: []string{"GET /attendances"}, code: http.StatusInternalServerError, wantState: view.Error},
		{name: "session expired on one call", fail: []string{"GET /classes"}, code: http.StatusUnauthorized, wantState: view.Error, wantAuth: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake, deps, _ := newTestDeps(t)
			for _, route := range tc.fail {
				fake.FailWith(route, tc.code)
			}
			v := NewAttendanceView(deps)

			snap, err := v.Load(fake.Ctx(testutil.AdminID), school.AttendanceFilter{Date: testutil.SeedDate}, nil)
			assert.Equal(t, tc.wantState, snap.State)
			if tc.wantState == view.Error {
				require.Error(t, err)
				assert.Equal(t, tc.wantAuth, apisvc.IsUnauthorized(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFailures, snap.Data.Failures)
			assert.Len(t, snap.Data.Records, 3, "the other calls still complete")
		})
	}
}

func TestAttendanceView_Load_revokedToken(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	ctx := fake.Ctx(testutil.TeacherID)
	fake.Revoke(testutil.TeacherID)

	snap, err := NewAttendanceView(deps).Load(ctx, school.AttendanceFilter{}, nil)
	require.Error(t, err)
	assert.True(t, apisvc.IsUnauthorized(err))
	assert.Equal(t, view.Error, snap.State)
}

func TestAttendanceView_UpdateStatus(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	ctx := fake.Ctx(testutil.TeacherID)
	v := NewAttendanceView(deps)

	before, err := v.Load(ctx, school.AttendanceFilter{Date: testutil.SeedDate}, nil)
	require.NoError(t, err)
	require.Len(t, before.Data.Records, 3)
	loads := fake.Calls("GET /attendances")

	after, err := v.UpdateStatus(ctx, "a-2", school.AttendanceUpdate{Status: school.AttendancePresent})
	require.NoError(t, err)

	require.Len(t, after.Data.Records, 3)
	for i, a := range after.Data.Records {
		if a.ID == "a-2" {
			assert.Equal(t, school.AttendancePresent, a.Status)
			continue
		}
		assert.Equal(t, before.Data.Records[i], a, "other records are untouched")
	}
	assert.Equal(t, school.AttendanceAbsent, before.Data.Records[1].Status, "earlier snapshots are not mutated")
	assert.Equal(t, 2, after.Data.Summary.Present)
	assert.Equal(t, 1, after.Data.Summary.Absent)
	assert.Equal(t, loads, fake.Calls("GET /attendances"), "the record is patched without refetching")

	t.Run("failure leaves the view untouched", func(t *testing.T) {
		fake.FailWith("PUT /attendances/:id", http.StatusInternalServerError)
		snap, err := v.UpdateStatus(ctx, "a-3", school.AttendanceUpdate{Status: school.AttendanceExcused})
		require.Error(t, err)
		assert.Equal(t, after.Data.Records, snap.Data.Records)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := v.UpdateStatus(ctx, "a-3", school.AttendanceUpdate{Status: "gone"})
		require.Error(t, err)
		_, ok := core.TranslateErrors(err, core.NewTranslator("en"))
		assert.True(t, ok)
	})
}

func TestAttendanceView_MarkClass(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	ctx := fake.Ctx(testutil.TeacherID)
	v := NewAttendanceView(deps)
	_, err := v.Load(ctx, school.AttendanceFilter{Date: "2024-03-04", ClassID: testutil.Class6A}, nil)
	require.NoError(t, err)

	snap, err := v.MarkClass(ctx, school.NewAttendanceBulk{
		ClassID: testutil.Class6A,
		Date:    "2024-03-04",
		Records: []school.AttendanceMark{
			{StudentID: testutil.Student1, Status: school.AttendancePresent},
			{StudentID: testutil.Student2, Status: school.AttendanceLate},
		},
	})
	require.NoError(t, err)
	require.Len(t, snap.Data.Records, 2)
	assert.Equal(t, 2, snap.Data.Summary.Records)
	assert.Equal(t, float64(100), snap.Data.Summary.Rate)
}

func TestAttendanceView_Table(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	v := NewAttendanceView(deps)
	_, err := v.Load(fake.Ctx(testutil.AdminID), school.AttendanceFilter{Date: testutil.SeedDate, Status: school.AttendanceAbsent}, nil)
	require.NoError(t, err)

	table := v.Table()
	assert.Equal(t, 2, table.Len())

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, table))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, table.Len()+1)
}
