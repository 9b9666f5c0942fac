package expense

import (
	"time"

	"github.com/frahmantamala/deptdesk/internal/core/department"
	expenseDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ReviewOutcomes are the statuses HR may set on a pending expense.
var ReviewOutcomes = []Status{StatusApproved, StatusRejected}

type Expense struct {
	ID                  int64                 `json:"id"`
	Description         string                `json:"description"`
	Amount              decimal.Decimal       `json:"amount"`
	Category            string                `json:"category"`
	Date                time.Time             `json:"date"`
	CreatedBy           string                `json:"createdBy"`
	CreatedByDepartment department.Department `json:"createdByDepartment"`
	CreatedByUserID     int64                 `json:"createdByUserId"`
	Status              Status                `json:"status"`
	ApprovedBy          *string               `json:"approvedBy"`
	ApprovedByUserID    *int64                `json:"approvedByUserId"`
	ApprovalDate        *time.Time            `json:"approvalDate"`
	HRNotes             string                `json:"hrNotes"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

func (e *Expense) IsPending() bool {
	return e.Status == StatusPending
}

// Review records the HR decision. Callers check IsPending first.
func (e *Expense) Review(outcome Status, reviewerID int64, reviewerName, notes string, at time.Time) {
	e.Status = outcome
	e.ApprovedBy = &reviewerName
	e.ApprovedByUserID = &reviewerID
	e.ApprovalDate = &at
	if notes != "" {
		e.HRNotes = notes
	}
	e.UpdatedAt = at
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:                  e.ID,
		Description:         e.Description,
		Amount:              e.Amount,
		Category:            e.Category,
		ExpenseDate:         e.Date,
		CreatedBy:           e.CreatedBy,
		CreatedByDepartment: string(e.CreatedByDepartment),
		CreatedByUserID:     e.CreatedByUserID,
		Status:              string(e.Status),
		ApprovedBy:          e.ApprovedBy,
		ApprovedByUserID:    e.ApprovedByUserID,
		ApprovalDate:        e.ApprovalDate,
		HRNotes:             e.HRNotes,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:                  e.ID,
		Description:         e.Description,
		Amount:              e.Amount,
		Category:            e.Category,
		Date:                e.ExpenseDate,
		CreatedBy:           e.CreatedBy,
		CreatedByDepartment: department.Department(e.CreatedByDepartment),
		CreatedByUserID:     e.CreatedByUserID,
		Status:              Status(e.Status),
		ApprovedBy:          e.ApprovedBy,
		ApprovedByUserID:    e.ApprovedByUserID,
		ApprovalDate:        e.ApprovalDate,
		HRNotes:             e.HRNotes,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
