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

type FinanceData struct {
	Filter   school.PaymentFilter `json:"filter"`
	Payments []school.Payment     `json:"payments"`
	Students []school.User        `json:"students"`
	Stats    stats.FinanceStats   `json:"stats"`
	Failures []string             `json:"failures,omitempty"`
}

type FinanceView struct {
	deps  Deps
	model *view.Model[FinanceData]

	mu       sync.Mutex
	filter   school.PaymentFilter
	ordering []core.Ordering
}

func NewFinanceView(deps Deps) *FinanceView {
	return &FinanceView{deps: deps, model: view.NewModel[FinanceData]()}
}

func paymentKey(p school.Payment, field string) (string, bool) {
	switch field {
	case "amount":
		return numKey(p.Amount), true
	case "due_date":
		return p.DueDate, true
	case "paid_date":
		return p.PaidDate.String, true
	case "status":
		return string(p.Status), true
	case "type":
		return string(p.Type), true
	case "student":
		return textKey(p.StudentName.String), true
	}
	return "", false
}

// Load fetches payments and students. Search is matched locally on the student name and
// the description; the statistics cover the displayed payments.
func (v *FinanceView) Load(ctx context.Context, filter school.PaymentFilter, ordering []core.Ordering) (view.Snapshot[FinanceData], error) {
	if err := filter.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	v.mu.Lock()
	v.filter, v.ordering = filter, ordering
	v.mu.Unlock()

	return v.model.Load(ctx, func(ctx context.Context) (FinanceData, error) {
		data := FinanceData{Filter: filter}
		failures := view.Parallel(ctx,
			view.NewCall("payments", func(ctx context.Context) (err error) {
				data.Payments, err = v.deps.API.ListPayments(ctx, filter)
				return err
			}),
			view.NewCall("students", func(ctx context.Context) (err error) {
				data.Students, err = v.deps.API.ListUsers(ctx, school.UserFilter{Role: school.RoleStudent})
				return err
			}),
		)
		var err error
		if data.Failures, err = settle(failures, 2); err != nil {
			return data, err
		}

		data.Payments = stats.Filter(data.Payments, func(p school.Payment) bool {
			return stats.MatchText(filter.Search, p.StudentName.String, p.Description.String)
		})
		core.SortBy(data.Payments, ordering, paymentKey)
		data.Stats = stats.Finance(data.Payments)
		return data, nil
	})
}

func (v *FinanceView) Reload(ctx context.Context) (view.Snapshot[FinanceData], error) {
	v.mu.Lock()
	filter, ordering := v.filter, v.ordering
	v.mu.Unlock()
	return v.Load(ctx, filter, ordering)
}

func (v *FinanceView) Snapshot() view.Snapshot[FinanceData] {
	return v.model.Snapshot()
}

func (v *FinanceView) CreatePayment(ctx context.Context, np school.NewPayment) (view.Snapshot[FinanceData], error) {
	if err := np.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.CreatePayment(ctx, np); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "creating payment")
	}
	return v.Reload(ctx)
}

// UpdatePayment applies a partial change, eg. marking the payment paid, then reloads.
func (v *FinanceView) UpdatePayment(ctx context.Context, id string, pu school.PaymentUpdate) (view.Snapshot[FinanceData], error) {
	if err := pu.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.UpdatePayment(ctx, id, pu); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "updating payment")
	}
	return v.Reload(ctx)
}

func (v *FinanceView) DeletePayment(ctx context.Context, id string) (view.Snapshot[FinanceData], error) {
	if err := v.deps.API.DeletePayment(ctx, id); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "deleting payment")
	}
	return v.Reload(ctx)
}

func (v *FinanceView) Table() export.Table {
	return v.TableOf(v.model.Snapshot())
}

func (v *FinanceView) TableOf(snap view.Snapshot[FinanceData]) export.Table {
	return export.PaymentsTable(snap.Data.Payments)
}
