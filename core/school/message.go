package school

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core"
)

type Message struct {
	ID           string      `json:"id"`
	SenderID     string      `json:"sender_id"`
	SenderName   null.String `json:"sender_name"`
	ReceiverID   string      `json:"receiver_id"`
	ReceiverName null.String `json:"receiver_name"`
	Subject      string      `json:"subject"`
	Body         string      `json:"content"`
	SentAt       time.Time   `json:"created_at"`
	IsRead       bool        `json:"is_read"`
}

type MessageFilter struct {
	UserID string `query:"user_id"`
	Box    string `query:"box"` // inbox | sent
	Limit  int    `query:"limit"`
}

type NewMessage struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Subject    string `json:"subject" validate:"required,notblank,max=200"`
	Body       string `json:"content" validate:"required,notblank,max=5000"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.ReceiverID = core.CleanString(nm.ReceiverID)
	nm.Subject = core.CleanString(nm.Subject)
	nm.Body = core.CleanString(nm.Body)
	return validate.Struct(nm)
}
