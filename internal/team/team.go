package team

import (
	"time"

	teamDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/team"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/user"
)

// Team is the set of users an HR user looks after, grouped by department.
type Team struct {
	ID        int64
	HRUserID  int64
	Members   []Member
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Member struct {
	UserID     int64
	Department department.Department
}

// HasMember reports whether userID is listed under dept.
func (t *Team) HasMember(userID int64, dept department.Department) bool {
	for _, m := range t.Members {
		if m.UserID == userID && m.Department == dept {
			return true
		}
	}
	return false
}

// MemberIDs returns the ids listed under dept in insertion order.
func (t *Team) MemberIDs(dept department.Department) []int64 {
	var ids []int64
	for _, m := range t.Members {
		if m.Department == dept {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

// View is the JSON shape of a team.
type View struct {
	ID             int64          `json:"id"`
	HRUser         user.Summary   `json:"hrUser"`
	TechMembers    []user.Summary `json:"techMembers"`
	ITMembers      []user.Summary `json:"itMembers"`
	FinanceMembers []user.Summary `json:"financeMembers"`
}

func FromDataModel(t *teamDatamodel.Team) *Team {
	members := make([]Member, len(t.Members))
	for i, m := range t.Members {
		members[i] = Member{UserID: m.UserID, Department: department.Department(m.Department)}
	}
	return &Team{
		ID:        t.ID,
		HRUserID:  t.HRUserID,
		Members:   members,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
