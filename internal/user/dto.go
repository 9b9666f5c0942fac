package user

import (
	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/common/validation"
	"github.com/frahmantamala/deptdesk/internal/core/department"
)

type ChangeDepartmentDTO struct {
	NewDepartment string `json:"newDepartment"`
}

func (dto ChangeDepartmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("newDepartment", dto.NewDepartment).
		Required().
		OneOf(department.Strings(department.All), internal.ErrCodeInvalidDepartment)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ChangeDepartmentResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}
