package school

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-dashboard/core"
)

var (
	roleTag  = "role"
	roleText = "must be one of: admin, teacher, student, parent"

	attendanceStatusTag  = "attendance_status"
	attendanceStatusText = "must be one of: present, absent, late, excused"

	paymentStatusTag  = "payment_status"
	paymentStatusText = "must be one of: paid, pending, overdue"

	paymentTypeTag  = "payment_type"
	paymentTypeText = "must be one of: tuition, canteen, transport, materials, other"

	clockTag  = "clock"
	clockText = "must be a time in the HH:MM format"
)

// InitValidators registers the school validators on top of core.InitValidators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.InitValidators(validate, translator)

	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(attendanceStatusTag, func(fl validator.FieldLevel) bool {
		return AttendanceStatus(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusText)

	_ = validate.RegisterValidation(paymentStatusTag, func(fl validator.FieldLevel) bool {
		return PaymentStatus(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, paymentStatusTag, paymentStatusText)

	_ = validate.RegisterValidation(paymentTypeTag, func(fl validator.FieldLevel) bool {
		return PaymentType(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, paymentTypeTag, paymentTypeText)

	_ = validate.RegisterValidation(clockTag, func(fl validator.FieldLevel) bool {
		return clockRgx.MatchString(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, clockTag, clockText)

	// password policy
	validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdComplexityTag, pwdComplexityText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(validate, translator, pwdNoCommonTag, pwdNoCommonText)
}

// NewValidator returns a validator with every school validator and translation registered.
func NewValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	InitValidators(validate, translator)
	return validate
}
