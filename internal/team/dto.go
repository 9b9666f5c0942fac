package team

import (
	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/common/validation"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/user"
)

// AddMemberDTO accepts the legacy techUserId field as a Tech member.
type AddMemberDTO struct {
	UserID     int64  `json:"userId"`
	Department string `json:"department"`
	TechUserID int64  `json:"techUserId,omitempty"`
}

func (dto *AddMemberDTO) Normalize() {
	if dto.UserID == 0 && dto.TechUserID != 0 {
		dto.UserID = dto.TechUserID
		if dto.Department == "" {
			dto.Department = string(department.Tech)
		}
	}
	if d, ok := department.Parse(dto.Department); ok {
		dto.Department = string(d)
	}
}

func (dto AddMemberDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", dto.UserID).Required()
	v.Field("department", dto.Department).
		Required().
		OneOf(department.Strings(department.TeamTargets), internal.ErrCodeInvalidDepartment)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type MemberChangeResponse struct {
	Message string `json:"message"`
	Team    *View  `json:"team"`
}

type AssignedHRResponse struct {
	AssignedHR *user.Summary `json:"assignedHR"`
	Message    string        `json:"message,omitempty"`
}
