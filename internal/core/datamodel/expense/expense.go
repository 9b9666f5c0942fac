package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID                  int64           `gorm:"primaryKey"`
	Description         string          `gorm:"column:description;not null"`
	Amount              decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Category            string          `gorm:"column:category;not null"`
	ExpenseDate         time.Time       `gorm:"column:expense_date;not null"`
	CreatedBy           string          `gorm:"column:created_by;not null"`
	CreatedByDepartment string          `gorm:"column:created_by_department;not null"`
	CreatedByUserID     int64           `gorm:"column:created_by_user_id;index"`
	Status              string          `gorm:"column:status;index;not null"`
	ApprovedBy          *string         `gorm:"column:approved_by"`
	ApprovedByUserID    *int64          `gorm:"column:approved_by_user_id"`
	ApprovalDate        *time.Time      `gorm:"column:approval_date"`
	HRNotes             string          `gorm:"column:hr_notes;type:text"`
	CreatedAt           time.Time       `gorm:"column:created_at;index"`
	UpdatedAt           time.Time       `gorm:"column:updated_at"`
}

func (Expense) TableName() string { return "expenses" }
