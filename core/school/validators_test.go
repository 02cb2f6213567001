package school

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
)

func newTestValidator() (*validator.Validate, func(err error) map[string]string) {
	translator := core.NewTranslator("en")
	validate := NewValidator(translator)
	translate := func(err error) map[string]string {
		fldErrs, _ := core.TranslateErrors(err, translator)
		return fldErrs
	}
	return validate, translate
}

func Test_checkPassword(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "too short", pwd: "Sh0rt!", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "Has sp4ce!", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", wantTag: pwdNotAllNumTag},
		{name: "no upper", pwd: "alllower1!", wantTag: pwdComplexityTag},
		{name: "no special", pwd: "NoSpecial1", wantTag: pwdComplexityTag},
		{name: "similar to name", pwd: "JeanDupont1!", wantTag: pwdAttrSimTag},
		{name: "common", pwd: "P@ssw0rd", wantTag: pwdNoCommonTag},
		{name: "valid", pwd: "Xy7#qLm9zR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkPassword(tt.pwd, "Jean Dupont", "jean@test.cd"); got != tt.wantTag {
				t.Errorf("checkPassword() = %q; want %q", got, tt.wantTag)
			}
		})
	}
}

func TestNewUser_Validate(t *testing.T) {
	validate, translate := newTestValidator()

	valid := func() NewUser {
		return NewUser{
			FirstName:       " Jean ",
			LastName:        "Dupont",
			Email:           " Jean@Test.CD ",
			Role:            " Teacher",
			Password:        "Xy7#qLm9zR",
			PasswordConfirm: "Xy7#qLm9zR",
		}
	}

	t.Run("valid input is cleaned", func(t *testing.T) {
		nu := valid()
		require.NoError(t, nu.Validate(validate))
		assert.Equal(t, "Jean", nu.FirstName)
		assert.Equal(t, "jean@test.cd", nu.Email)
		assert.Equal(t, RoleTeacher, nu.Role)
	})

	tests := []struct {
		name      string
		mutate    func(nu *NewUser)
		wantField string
	}{
		{name: "blank first name", mutate: func(nu *NewUser) { nu.FirstName = "   " }, wantField: "first_name"},
		{name: "bad email", mutate: func(nu *NewUser) { nu.Email = "nope" }, wantField: "email"},
		{name: "unknown role", mutate: func(nu *NewUser) { nu.Role = "janitor" }, wantField: "role"},
		{name: "bad phone", mutate: func(nu *NewUser) { nu.Phone = "0812" }, wantField: "phone"},
		{name: "confirm mismatch", mutate: func(nu *NewUser) { nu.PasswordConfirm = "other" }, wantField: "password_confirm"},
		{name: "weak password", mutate: func(nu *NewUser) { nu.Password, nu.PasswordConfirm = "weak", "weak" }, wantField: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid()
			tt.mutate(&nu)
			err := nu.Validate(validate)
			require.Error(t, err)
			fldErrs := translate(err)
			assert.Contains(t, fldErrs, tt.wantField)
		})
	}
}

func TestEnumValidators(t *testing.T) {
	validate, translate := newTestValidator()

	np := NewPayment{StudentID: "s1", Amount: 100, Type: "books", Status: "PAID", DueDate: "2024-01-31"}
	err := np.Validate(validate)
	require.Error(t, err)
	fldErrs := translate(err)
	assert.Equal(t, paymentTypeText, fldErrs["type"])
	assert.NotContains(t, fldErrs, "status")

	au := AttendanceUpdate{Status: "skipped"}
	err = au.Validate(validate)
	require.Error(t, err)
	assert.Equal(t, attendanceStatusText, translate(err)["status"])

	au = AttendanceUpdate{Status: " Absent "}
	require.NoError(t, au.Validate(validate))
	assert.Equal(t, AttendanceAbsent, au.Status)
}

func TestNewRelationship_Validate(t *testing.T) {
	validate, translate := newTestValidator()

	nr := NewRelationship{ParentID: "p1", StudentID: "p1", Relationship: "Father"}
	err := nr.Validate(validate)
	require.Error(t, err)
	assert.Contains(t, translate(err), "student_id")

	nr = NewRelationship{ParentID: "p1", StudentID: "s1", Relationship: " Father "}
	require.NoError(t, nr.Validate(validate))
	assert.Equal(t, "father", nr.Relationship)
}

func TestNewGrade_Validate(t *testing.T) {
	validate, translate := newTestValidator()

	ng := NewGrade{StudentID: "s1", CourseID: "c1", Score: 25, MaxScore: 20, Term: "T1", Date: "2024-03-01"}
	err := ng.Validate(validate)
	require.Error(t, err)
	assert.Contains(t, translate(err), "score")

	ng.Score = 15
	require.NoError(t, ng.Validate(validate))
	assert.InDelta(t, 75.0, Grade{Score: ng.Score, MaxScore: ng.MaxScore}.Percent(), 0.001)
}

func TestNewSchedule_Validate(t *testing.T) {
	validate, translate := newTestValidator()

	ns := NewSchedule{CourseID: "c1", DayOfWeek: 1, StartTime: "8:00", EndTime: "09:00"}
	err := ns.Validate(validate)
	require.Error(t, err)
	assert.Equal(t, clockText, translate(err)["start_time"])

	ns.StartTime = "08:00"
	require.NoError(t, ns.Validate(validate))
}

func TestPaymentUpdate_Validate(t *testing.T) {
	validate, translate := newTestValidator()

	pu := PaymentUpdate{Status: PaymentPaid}
	err := pu.Validate(validate)
	require.Error(t, err)
	assert.Contains(t, translate(err), "paid_date")

	pu = PaymentUpdate{Status: PaymentPaid, PaidDate: "2024-02-01", Method: "cash"}
	require.NoError(t, pu.Validate(validate))
}

func TestSettings_Validate(t *testing.T) {
	validate, translate := newTestValidator()

	s := Settings{General: GeneralSettings{SchoolName: "Institut Masomo", Language: "de"}}
	err := s.Validate(validate)
	require.Error(t, err)
	assert.Contains(t, translate(err), "language")

	s.General.Language = "fr"
	s.Academic.PassingGrade = 50
	require.NoError(t, s.Validate(validate))
}

func TestNewSchedule_Validate_endBeforeStart(t *testing.T) {
	validate, translate := newTestValidator()

	ns := NewSchedule{CourseID: "c1", DayOfWeek: 1, StartTime: "10:00", EndTime: "09:30"}
	err := ns.Validate(validate)
	require.Error(t, err)
	assert.Equal(t, "must be after the start time", translate(err)["end_time"])
}
