package postgres

import (
	"context"

	"github.com/frahmantamala/deptdesk/internal/analytics"
	"github.com/jmoiron/sqlx"
)

const countsQuery = `
SELECT
	(SELECT COUNT(*) FROM users) AS total_users,
	(SELECT COUNT(*) FROM issues) AS total_issues,
	(SELECT COUNT(*) FROM expenses) AS total_expenses,
	(SELECT COUNT(*) FROM issues WHERE status = ?) AS pending_issues,
	(SELECT COUNT(*) FROM expenses WHERE status = ?) AS pending_expenses,
	(SELECT COALESCE(SUM(amount), 0) FROM expenses) AS total_expense_amount`

const (
	issuesByStatusQuery    = `SELECT status AS name, COUNT(*) AS count FROM issues GROUP BY status`
	usersByDepartmentQuery = `SELECT department AS name, COUNT(*) AS count FROM users GROUP BY department`
)

type bucket struct {
	Name  string `db:"name"`
	Count int64  `db:"count"`
}

// AnalyticsRepository runs the aggregate queries through sqlx, which
// rebinds placeholders for the connected driver.
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Counts(ctx context.Context) (*analytics.Counts, error) {
	var c analytics.Counts
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(countsQuery), "pending", "pending"); err != nil {
		return nil, err
	}

	var err error
	if c.IssuesByStatus, err = r.buckets(ctx, issuesByStatusQuery); err != nil {
		return nil, err
	}
	if c.UsersByDepartment, err = r.buckets(ctx, usersByDepartmentQuery); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AnalyticsRepository) buckets(ctx context.Context, query string) (map[string]int64, error) {
	var rows []bucket
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, b := range rows {
		out[b.Name] = b.Count
	}
	return out, nil
}
