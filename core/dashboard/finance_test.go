package dashboard

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/export"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
	"github.com/trezcool/masomo-dashboard/tests"
)

func TestFinanceView_Load(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	ctx := fake.Ctx(testutil.AdminID)

	t.Run("stats", func(t *testing.T) {
		snap, err := NewFinanceView(deps).Load(ctx, school.PaymentFilter{}, nil)
		require.NoError(t, err)
		st := snap.Data.Stats
		assert.Equal(t, float64(100), st.TotalRevenue)
		assert.Equal(t, float64(50), st.PendingAmount)
		assert.Equal(t, float64(20), st.OverdueAmount)
		assert.Equal(t, 3, st.TotalTransactions)
		assert.Equal(t, 58.8, st.CollectionRate)
		assert.Equal(t, float64(100), st.ByType[school.PaymentTuition])
		assert.Len(t, snap.Data.Students, 3)
	})

	tests := []struct {
		name     string
		filter   school.PaymentFilter
		ordering string
		wantIDs  []string
	}{
		{name: "all", wantIDs: []string{"p-1", "p-2", "p-3"}},
		{name: "by status", filter: school.PaymentFilter{Status: school.PaymentPending}, wantIDs: []string{"p-2"}},
		{name: "by type", filter: school.PaymentFilter{Type: school.PaymentTransport}, wantIDs: []string{"p-3"}},
		{name: "search", filter: school.PaymentFilter{Search: "mutombo"}, wantIDs: []string{"p-1"}},
		{name: "by amount", ordering: "amount", wantIDs: []string{"p-3", "p-2", "p-1"}},
		{name: "by due date desc", ordering: "-due_date", wantIDs: []string{"p-2", "p-1", "p-3"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := NewFinanceView(deps).Load(ctx, tc.filter, core.ParseOrderings(tc.ordering))
			require.NoError(t, err)
			ids := make([]string, 0, len(snap.Data.Payments))
			for _, p := range snap.Data.Payments {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
			assert.Equal(t, len(tc.wantIDs), snap.Data.Stats.TotalTransactions, "stats cover the displayed payments")
		})
	}
}

func TestFinanceView_Load_failures(t *testing.T) {
	t.Run("students failed", func(t *testing.T) {
		fake, deps, _ := newTestDeps(t)
		fake.FailWith("GET /users", http.StatusInternalServerError)
		snap, err := NewFinanceView(deps).Load(fake.Ctx(testutil.AdminID), school.PaymentFilter{}, nil)
		require.NoError(t, err)
		assert.Equal(t, view.Ready, snap.State)
		assert.Equal(t, []string{"students"}, snap.Data.Failures)
		assert.Len(t, snap.Data.Payments, 3)
	})

	t.Run("every call failed", func(t *testing.T) {
		fake, deps, _ := newTestDeps(t)
		fake.FailWith("GET /users", http.StatusInternalServerError)
		fake.FailWith("GET /payments", http.StatusInternalServerError)
		snap, err := NewFinanceView(deps).Load(fake.Ctx(testutil.AdminID), school.PaymentFilter{}, nil)
		require.Error(t, err)
		assert.Equal(t, view.Error, snap.State)
	})
}

func TestFinanceView_mutations(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	ctx := fake.Ctx(testutil.AdminID)
	v := NewFinanceView(deps)
	_, err := v.Load(ctx, school.PaymentFilter{}, nil)
	require.NoError(t, err)

	t.Run("mark paid", func(t *testing.T) {
		snap, err := v.UpdatePayment(ctx, "p-2", school.PaymentUpdate{Status: school.PaymentPaid, PaidDate: "2024-03-01", Method: "mobile money"})
		require.NoError(t, err)
		assert.Equal(t, float64(150), snap.Data.Stats.TotalRevenue)
		assert.Equal(t, float64(0), snap.Data.Stats.PendingAmount)
		assert.Equal(t, "mobile money", snap.Data.Payments[1].Method.String)
	})

	t.Run("mark paid without date", func(t *testing.T) {
		_, err := v.UpdatePayment(ctx, "p-3", school.PaymentUpdate{Status: school.PaymentPaid})
		require.Error(t, err)
		fields, ok := core.TranslateErrors(err, core.NewTranslator("en"))
		require.True(t, ok)
		assert.Contains(t, fields, "paid_date")
	})

	t.Run("create", func(t *testing.T) {
		snap, err := v.CreatePayment(ctx, school.NewPayment{
			StudentID: testutil.Student3, Amount: 30, Type: school.PaymentMaterials,
			Status: school.PaymentPending, DueDate: "2024-04-30",
		})
		require.NoError(t, err)
		assert.Equal(t, 4, snap.Data.Stats.TotalTransactions)
		assert.Equal(t, float64(30), snap.Data.Stats.PendingAmount)
	})

	t.Run("delete", func(t *testing.T) {
		snap, err := v.DeletePayment(ctx, "p-3")
		require.NoError(t, err)
		assert.Equal(t, 3, snap.Data.Stats.TotalTransactions)
		assert.Equal(t, float64(0), snap.Data.Stats.OverdueAmount)
	})

	t.Run("delete unknown", func(t *testing.T) {
		before := v.Snapshot()
		snap, err := v.DeletePayment(ctx, "p-404")
		require.Error(t, err)
		assert.Equal(t, before.Data, snap.Data)
	})
}

func TestFinanceView_Table(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	v := NewFinanceView(deps)
	_, err := v.Load(fake.Ctx(testutil.AdminID), school.PaymentFilter{Status: school.PaymentPaid}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, v.Table()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Student,Amount,Type,Status,Due date,Paid date,Method", strings.TrimSpace(lines[0]))
	assert.Equal(t, "p-1,Bora Mutombo,100.00,tuition,paid,2024-01-31,2024-01-20,cash", strings.TrimSpace(lines[1]))
}

func TestFinanceView_TableOf(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	v := NewFinanceView(deps)
	ctx := fake.Ctx(testutil.AdminID)

	paid, err := v.Load(ctx, school.PaymentFilter{Status: school.PaymentPaid}, nil)
	require.NoError(t, err)
	all, err := v.Load(ctx, school.PaymentFilter{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, v.TableOf(paid).Len(), "the table follows the given snapshot")
	assert.Equal(t, 3, v.TableOf(all).Len())
	assert.Equal(t, 3, v.Table().Len(), "Table follows the latest load")
}
