package auth

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/common/validation"
	"github.com/frahmantamala/deptdesk/internal/core/department"
)

type SignupDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

// Normalize trims the name and lower-cases the email.
func (d *SignupDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Department = strings.TrimSpace(d.Department)
}

func (d SignupDTO) Validate(minPasswordLength int) error {
	if d.Name == "" || d.Email == "" || d.Password == "" || d.Department == "" {
		return internal.NewValidationError("All fields are required", internal.ErrCodeRequiredField)
	}
	if len(d.Password) < minPasswordLength {
		return internal.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters long", minPasswordLength),
			internal.ErrCodeWeakPassword)
	}

	v := validation.NewValidator()
	v.Field("name", d.Name).MaxLength(100)
	v.Field("email", d.Email).Email()
	v.Field("department", d.Department).
		OneOf(department.Strings(department.All), internal.ErrCodeInvalidDepartment)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SigninDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *SigninDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d SigninDTO) Validate() error {
	if d.Email == "" || d.Password == "" {
		return internal.NewValidationError("Email and password are required", internal.ErrCodeRequiredField)
	}
	return nil
}
