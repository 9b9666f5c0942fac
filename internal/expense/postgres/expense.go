package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/deptdesk/internal"
	expenseDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/expense"
	"github.com/frahmantamala/deptdesk/internal/expense"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	row := expense.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	var row expenseDatamodel.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&row), nil
}

func (r *ExpenseRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at DESC, id DESC")
}

func (r *ExpenseRepository) List(ctx context.Context, limit, offset int) ([]*expense.Expense, error) {
	q := r.newestFirst(ctx)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var rows []*expenseDatamodel.Expense
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	if err := r.newestFirst(ctx).Where("created_by_user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

// UpdateIfStatus writes the review fields only while the stored status
// still equals expected.
func (r *ExpenseRepository) UpdateIfStatus(ctx context.Context, e *expense.Expense, expected expense.Status) (bool, error) {
	row := expense.ToDataModel(e)
	res := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("id = ? AND status = ?", e.ID, string(expected)).
		Updates(map[string]interface{}{
			"status":              row.Status,
			"approved_by":         row.ApprovedBy,
			"approved_by_user_id": row.ApprovedByUserID,
			"approval_date":       row.ApprovalDate,
			"hr_notes":            row.HRNotes,
			"updated_at":          row.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
