package school

import (
	_ "time/tzdata" // the timezone tag must not depend on the host zoneinfo

	"github.com/go-playground/validator/v10"
)

// Settings is fetched whole and saved whole.
type Settings struct {
	General       GeneralSettings      `json:"general"`
	Notifications NotificationSettings `json:"notifications"`
	Security      SecuritySettings     `json:"security"`
	Academic      AcademicSettings     `json:"academic"`
}

type GeneralSettings struct {
	SchoolName string `json:"school_name" validate:"required,notblank,max=200"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
	Address    string `json:"address" validate:"max=300"`
	Timezone   string `json:"timezone" validate:"omitempty,timezone"`
	Language   string `json:"language" validate:"omitempty,oneof=en fr"`
}

type NotificationSettings struct {
	EmailNotifications bool `json:"email_notifications"`
	SMSNotifications   bool `json:"sms_notifications"`
	AttendanceAlerts   bool `json:"attendance_alerts"`
	GradeAlerts        bool `json:"grade_alerts"`
	PaymentReminders   bool `json:"payment_reminders"`
}

type SecuritySettings struct {
	SessionTimeout    int  `json:"session_timeout" validate:"gte=0,lte=1440"` // minutes
	PasswordMinLength int  `json:"password_min_length" validate:"gte=0,lte=64"`
	TwoFactorAuth     bool `json:"two_factor_auth"`
}

type AcademicSettings struct {
	CurrentYear  string  `json:"current_year" validate:"max=20"`
	CurrentTerm  string  `json:"current_term" validate:"max=20"`
	PassingGrade float64 `json:"passing_grade" validate:"gte=0,lte=100"`
	GradingScale string  `json:"grading_scale" validate:"max=50"`
}

func (s *Settings) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}
