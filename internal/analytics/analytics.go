package analytics

import (
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/issue"
	"github.com/shopspring/decimal"
)

// Counts is the raw aggregate read from the store.
type Counts struct {
	TotalUsers         int64           `db:"total_users"`
	TotalIssues        int64           `db:"total_issues"`
	TotalExpenses      int64           `db:"total_expenses"`
	PendingIssues      int64           `db:"pending_issues"`
	PendingExpenses    int64           `db:"pending_expenses"`
	TotalExpenseAmount decimal.Decimal `db:"total_expense_amount"`
	IssuesByStatus     map[string]int64
	UsersByDepartment  map[string]int64
}

type Summary struct {
	TotalUsers         int64            `json:"totalUsers"`
	TotalIssues        int64            `json:"totalIssues"`
	TotalExpenses      int64            `json:"totalExpenses"`
	PendingIssues      int64            `json:"pendingIssues"`
	PendingExpenses    int64            `json:"pendingExpenses"`
	TotalExpenseAmount decimal.Decimal  `json:"totalExpenseAmount"`
	IssuesByStatus     map[string]int64 `json:"issuesByStatus"`
	UsersByDepartment  map[string]int64 `json:"usersByDepartment"`
}

// NewSummary reports every known status and department, including those
// with no rows.
func NewSummary(c *Counts) *Summary {
	s := &Summary{
		TotalUsers:         c.TotalUsers,
		TotalIssues:        c.TotalIssues,
		TotalExpenses:      c.TotalExpenses,
		PendingIssues:      c.PendingIssues,
		PendingExpenses:    c.PendingExpenses,
		TotalExpenseAmount: c.TotalExpenseAmount,
		IssuesByStatus:     make(map[string]int64, len(issue.Statuses)),
		UsersByDepartment:  make(map[string]int64, len(department.All)),
	}
	for _, st := range issue.Statuses {
		s.IssuesByStatus[string(st)] = c.IssuesByStatus[string(st)]
	}
	for _, d := range department.All {
		s.UsersByDepartment[string(d)] = c.UsersByDepartment[string(d)]
	}
	return s
}
