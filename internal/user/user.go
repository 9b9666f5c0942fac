package user

import (
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	userDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/user"
	"github.com/frahmantamala/deptdesk/internal/core/department"
)

type User struct {
	ID           int64                 `json:"id"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	PasswordHash string                `json:"-"`
	Department   department.Department `json:"department"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// Summary is the reduced view embedded in team rosters and suggestions.
type Summary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Principal converts the record into the request-scoped caller identity.
func (u *User) Principal() *internal.User {
	return &internal.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
	}
}

func Summaries(users []*User) []Summary {
	out := make([]Summary, len(users))
	for i, u := range users {
		out[i] = u.Summary()
	}
	return out
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Department:   string(u.Department),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Department:   department.Department(u.Department),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
