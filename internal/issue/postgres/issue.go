package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/deptdesk/internal"
	issueDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/issue"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/issue"
	"gorm.io/gorm"
)

type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

const appendNotesSQL = "CASE WHEN COALESCE(hr_notes, '') = '' THEN CAST(? AS TEXT) ELSE hr_notes || CAST(? AS TEXT) END"

func (r *IssueRepository) Create(ctx context.Context, i *issue.Issue) error {
	i.TakeUnsavedNotes()
	row := issue.ToDataModel(i)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	i.ID = row.ID
	return nil
}

func (r *IssueRepository) GetByID(ctx context.Context, id int64) (*issue.Issue, error) {
	var row issueDatamodel.Issue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrIssueNotFound
		}
		return nil, err
	}
	return issue.FromDataModel(&row), nil
}

func (r *IssueRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at DESC, id DESC")
}

func (r *IssueRepository) List(ctx context.Context, limit, offset int) ([]*issue.Issue, error) {
	q := r.newestFirst(ctx)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var rows []*issueDatamodel.Issue
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return issue.FromDataModelSlice(rows), nil
}

func (r *IssueRepository) ListByReporter(ctx context.Context, reporter string) ([]*issue.Issue, error) {
	var rows []*issueDatamodel.Issue
	if err := r.newestFirst(ctx).Where("reported_by = ?", reporter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return issue.FromDataModelSlice(rows), nil
}

func (r *IssueRepository) ListByDepartment(ctx context.Context, dept department.Department, statuses []issue.Status) ([]*issue.Issue, error) {
	var rows []*issueDatamodel.Issue
	err := r.newestFirst(ctx).
		Where("routed_to_department = ?", string(dept)).
		Where("status IN ?", issue.StatusStrings(statuses)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return issue.FromDataModelSlice(rows), nil
}

// ListByStatus returns issues oldest first so batch jobs see them in filing
// order.
func (r *IssueRepository) ListByStatus(ctx context.Context, status issue.Status) ([]*issue.Issue, error) {
	var rows []*issueDatamodel.Issue
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return issue.FromDataModelSlice(rows), nil
}

// UpdateIfStatus writes the mutable fields when the stored status still
// equals expected. Notes appended since the issue was loaded are added to the
// stored hr_notes instead of replacing them.
func (r *IssueRepository) UpdateIfStatus(ctx context.Context, i *issue.Issue, expected issue.Status) (bool, error) {
	row := issue.ToDataModel(i)
	fields := map[string]interface{}{
		"status":                           row.Status,
		"routed_to_department":             row.RoutedToDepartment,
		"assigned_to_department_user":      row.AssignedToDepartmentUser,
		"assigned_to_department_user_name": row.AssignedToDepartmentUserName,
		"resolution_notes":                 row.ResolutionNotes,
		"auto_routed":                      row.AutoRouted,
		"updated_at":                       row.UpdatedAt,
	}
	if notes := i.TakeUnsavedNotes(); notes != "" {
		fields["hr_notes"] = gorm.Expr(appendNotesSQL, notes, "\n"+notes)
	}
	res := r.db.WithContext(ctx).
		Model(&issueDatamodel.Issue{}).
		Where("id = ? AND status = ?", i.ID, string(expected)).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
