package school

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

var PaymentStatuses = []PaymentStatus{PaymentPaid, PaymentPending, PaymentOverdue}

func (s PaymentStatus) Valid() bool {
	for _, status := range PaymentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s PaymentStatus) String() string { return string(s) }

type PaymentType string

const (
	PaymentTuition   PaymentType = "tuition"
	PaymentCanteen   PaymentType = "canteen"
	PaymentTransport PaymentType = "transport"
	PaymentMaterials PaymentType = "materials"
	PaymentOther     PaymentType = "other"
)

var PaymentTypes = []PaymentType{PaymentTuition, PaymentCanteen, PaymentTransport, PaymentMaterials, PaymentOther}

func (t PaymentType) Valid() bool {
	for _, typ := range PaymentTypes {
		if t == typ {
			return true
		}
	}
	return false
}

func (t PaymentType) String() string { return string(t) }

type Payment struct {
	ID          string        `json:"id"`
	StudentID   string        `json:"student_id"`
	StudentName null.String   `json:"student_name"`
	Amount      float64       `json:"amount"`
	Type        PaymentType   `json:"type"`
	Status      PaymentStatus `json:"status"`
	DueDate     string        `json:"due_date"`
	PaidDate    null.String   `json:"paid_date"`
	Method      null.String   `json:"payment_method"`
	Description null.String   `json:"description"`
}

type PaymentFilter struct {
	StudentID string        `query:"student_id"`
	Status    PaymentStatus `query:"status" validate:"omitempty,payment_status"`
	Type      PaymentType   `query:"type" validate:"omitempty,payment_type"`
	Search    string        `query:"search"`
	From      string        `query:"from" validate:"isodate"`
	To        string        `query:"to" validate:"isodate"`
}

func (f *PaymentFilter) Validate(validate *validator.Validate) error {
	f.StudentID = core.CleanString(f.StudentID)
	f.Status = PaymentStatus(core.CleanString(string(f.Status), true /* lower */))
	f.Type = PaymentType(core.CleanString(string(f.Type), true /* lower */))
	f.Search = core.CleanString(f.Search)
	f.From = core.CleanString(f.From)
	f.To = core.CleanString(f.To)
	return validate.Struct(f)
}

type NewPayment struct {
	StudentID   string        `json:"student_id" validate:"required"`
	Amount      float64       `json:"amount" validate:"gt=0"`
	Type        PaymentType   `json:"type" validate:"required,payment_type"`
	Status      PaymentStatus `json:"status" validate:"required,payment_status"`
	DueDate     string        `json:"due_date" validate:"required,isodate"`
	PaidDate    string        `json:"paid_date,omitempty" validate:"isodate"`
	Method      string        `json:"payment_method,omitempty" validate:"max=50"`
	Description string        `json:"description,omitempty" validate:"max=500"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.StudentID = core.CleanString(np.StudentID)
	np.Type = PaymentType(core.CleanString(string(np.Type), true /* lower */))
	np.Status = PaymentStatus(core.CleanString(string(np.Status), true /* lower */))
	np.DueDate = core.CleanString(np.DueDate)
	np.PaidDate = core.CleanString(np.PaidDate)
	np.Method = core.CleanString(np.Method)
	np.Description = core.CleanString(np.Description)
	return validate.Struct(np)
}

// PaymentUpdate is a partial change set; marking a payment paid sets Status, PaidDate and Method.
type PaymentUpdate struct {
	Status   PaymentStatus `json:"status,omitempty" validate:"omitempty,payment_status"`
	Amount   *float64      `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PaidDate string        `json:"paid_date,omitempty" validate:"isodate,required_if=Status paid"`
	Method   string        `json:"payment_method,omitempty" validate:"max=50"`
}

func (pu *PaymentUpdate) Validate(validate *validator.Validate) error {
	pu.Status = PaymentStatus(core.CleanString(string(pu.Status), true /* lower */))
	pu.PaidDate = core.CleanString(pu.PaidDate)
	pu.Method = core.CleanString(pu.Method)
	return validate.Struct(pu)
}
