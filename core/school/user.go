package school

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core"
)

type User struct {
	ID        string      `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      Role        `json:"role"`
	Phone     null.String `json:"phone"`
	IsActive  bool        `json:"is_active"`
	CreatedAt null.Time   `json:"created_at"`
}

// Name returns the display name of the user.
func (u User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type UserFilter struct {
	Role   Role   `query:"role"`
	Search string `query:"search"`
	Limit  int    `query:"limit"`
}

func (f *UserFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.Role = Role(core.CleanString(string(f.Role), true /* lower */))
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	FirstName       string `json:"first_name" validate:"required,notblank,max=100"`
	LastName        string `json:"last_name" validate:"required,notblank,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Role            Role   `json:"role" validate:"required,role"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	nu.Phone = core.CleanString(nu.Phone)
	return validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Role      Role   `json:"role,omitempty" validate:"omitempty,role"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,e164"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.FirstName = core.CleanString(uu.FirstName)
	uu.LastName = core.CleanString(uu.LastName)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	uu.Role = Role(core.CleanString(string(uu.Role), true /* lower */))
	return validate.Struct(uu)
}
