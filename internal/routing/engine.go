package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/core/events"
	"github.com/frahmantamala/deptdesk/internal/issue"
	"github.com/frahmantamala/deptdesk/internal/user"
)

// Store is the part of the issue store the engine writes through.
type Store interface {
	GetByID(ctx context.Context, id int64) (*issue.Issue, error)
	ListByStatus(ctx context.Context, status issue.Status) ([]*issue.Issue, error)
	UpdateIfStatus(ctx context.Context, i *issue.Issue, expected issue.Status) (bool, error)
}

// Directory lists the users of a department in creation order.
type Directory interface {
	GetByID(ctx context.Context, userID int64) (*user.User, error)
	ListByDepartment(ctx context.Context, dept department.Department) ([]*user.User, error)
}

type Engine struct {
	issues Store
	users  Directory
	table  CategoryTable
	pick   AssigneePicker
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewEngine(issues Store, users Directory, table CategoryTable, pick AssigneePicker, publisher events.Publisher, logger *slog.Logger) *Engine {
	if pick == nil {
		pick = FirstAvailable
	}
	return &Engine{
		issues: issues,
		users:  users,
		table:  table,
		pick:   pick,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

// RouteIssue sends one issue to a department on behalf of an HR user. The
// stored issue is left untouched when any check fails.
func (e *Engine) RouteIssue(ctx context.Context, actor *internal.User, issueID int64, dto RouteDTO) (*issue.Issue, error) {
	dept, ok := department.Parse(dto.Department)
	if !ok {
		return nil, internal.NewValidationError("Invalid department", internal.ErrCodeInvalidDepartment)
	}

	i, err := e.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, internal.ErrIssueNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to load issue", err)
	}
	read := i.Status
	if !issue.CanRoute(read) {
		return nil, issue.InvalidTransitionError(read, issue.StatusRouted)
	}

	assignee, err := e.resolveAssignee(ctx, dept, dto.AssignedUserID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	note := fmt.Sprintf("%s Routed to %s by %s. Assigned to: %s", issue.Stamp(now), dept, actor.Name, assignee.Name)
	if err := i.Route(dept, assignee.ID, assignee.Name, note, false, now); err != nil {
		return nil, err
	}

	written, err := e.issues.UpdateIfStatus(ctx, i, read)
	if err != nil {
		e.logger.Error("failed to save routed issue", "error", err, "issue_id", issueID)
		return nil, internal.NewInternalError("failed to route issue", err)
	}
	if !written {
		e.logger.Warn("manual route lost a concurrent write", "issue_id", issueID, "expected_status", read)
		return nil, internal.ErrConcurrentUpdate
	}

	e.logger.Info("issue routed",
		"issue_id", issueID,
		"department", dept,
		"assignee_id", assignee.ID,
		"routed_by", actor.ID)
	e.publishRouted(ctx, i, assignee.ID, now)
	return i, nil
}

func (e *Engine) resolveAssignee(ctx context.Context, dept department.Department, assignedUserID *int64) (*user.User, error) {
	if assignedUserID != nil {
		u, err := e.users.GetByID(ctx, *assignedUserID)
		if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.NewInternalError("failed to load user", err)
		}
		if u == nil || u.Department != dept {
			return nil, internal.NewValidationError("Invalid user for the target department", internal.ErrCodeInvalidAssignee)
		}
		return u, nil
	}

	candidates, err := e.users.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, internal.NewInternalError("failed to list department users", err)
	}
	u := e.pick(candidates)
	if u == nil {
		return nil, internal.NewValidationError(
			fmt.Sprintf("No users found in %s department", dept),
			internal.ErrCodeNoDepartmentUsers)
	}
	return u, nil
}

// AutoRoute routes every pending issue by category. Issues whose target
// department has nobody to assign, or that another writer moved on in the
// meantime, are skipped.
func (e *Engine) AutoRoute(ctx context.Context) (*AutoRouteReport, error) {
	pending, err := e.issues.ListByStatus(ctx, issue.StatusPending)
	if err != nil {
		e.logger.Error("failed to list pending issues", "error", err)
		return nil, internal.NewInternalError("failed to list pending issues", err)
	}

	report := &AutoRouteReport{RoutingResults: []RoutingResult{}}
	candidates := make(map[department.Department][]*user.User)

	for _, i := range pending {
		dept := e.table.Lookup(i.Category)
		users, ok := candidates[dept]
		if !ok {
			users, err = e.users.ListByDepartment(ctx, dept)
			if err != nil {
				return nil, internal.NewInternalError("failed to list department users", err)
			}
			candidates[dept] = users
		}

		assignee := e.pick(users)
		if assignee == nil {
			e.logger.Debug("auto-route skipped: no users in department", "issue_id", i.ID, "department", dept)
			report.SkippedCount++
			continue
		}

		now := e.now()
		note := fmt.Sprintf("%s Auto-routed based on category: %s. Assigned to: %s", issue.Stamp(now), i.Category, assignee.Name)
		if err := i.Route(dept, assignee.ID, assignee.Name, note, true, now); err != nil {
			report.SkippedCount++
			continue
		}

		written, err := e.issues.UpdateIfStatus(ctx, i, issue.StatusPending)
		if err != nil {
			e.logger.Error("failed to save auto-routed issue", "error", err, "issue_id", i.ID)
			return nil, internal.NewInternalError("failed to auto-route issues", err)
		}
		if !written {
			e.logger.Debug("auto-route skipped: issue no longer pending", "issue_id", i.ID)
			report.SkippedCount++
			continue
		}

		report.RoutedCount++
		report.RoutingResults = append(report.RoutingResults, RoutingResult{
			IssueID:    i.ID,
			Title:      i.Title,
			Category:   i.Category,
			RoutedTo:   dept,
			AssignedTo: assignee.Name,
		})
		e.publishRouted(ctx, i, assignee.ID, now)
	}

	report.Message = fmt.Sprintf("Successfully auto-routed %d issues", report.RoutedCount)
	e.logger.Info("auto-route finished",
		"pending", len(pending),
		"routed", report.RoutedCount,
		"skipped", report.SkippedCount)
	return report, nil
}

// Suggestions previews where AutoRoute would send each pending issue.
func (e *Engine) Suggestions(ctx context.Context) ([]Suggestion, error) {
	pending, err := e.issues.ListByStatus(ctx, issue.StatusPending)
	if err != nil {
		e.logger.Error("failed to list pending issues", "error", err)
		return nil, internal.NewInternalError("failed to list pending issues", err)
	}

	candidates := make(map[department.Department][]user.Summary)
	suggestions := make([]Suggestion, 0, len(pending))
	for _, i := range pending {
		dept := e.table.Lookup(i.Category)
		available, ok := candidates[dept]
		if !ok {
			users, err := e.users.ListByDepartment(ctx, dept)
			if err != nil {
				return nil, internal.NewInternalError("failed to list department users", err)
			}
			available = user.Summaries(users)
			candidates[dept] = available
		}

		confidence := ConfidenceMedium
		if i.Category != "" && i.Category != issue.CategoryOther {
			confidence = ConfidenceHigh
		}

		suggestions = append(suggestions, Suggestion{
			IssueID:              i.ID,
			Title:                i.Title,
			Category:             i.Category,
			Priority:             i.Priority,
			ReportedBy:           i.ReportedBy,
			ReportedByDepartment: i.ReportedByDepartment,
			SuggestedDepartment:  dept,
			AvailableUsers:       available,
			Confidence:           confidence,
		})
	}
	return suggestions, nil
}

func (e *Engine) publishRouted(ctx context.Context, i *issue.Issue, assigneeID int64, at time.Time) {
	if e.events == nil {
		return
	}
	evt := events.NewIssueRoutedEvent(i.ID, string(*i.RoutedToDepartment), assigneeID, i.AutoRouted, at)
	if err := e.events.Publish(ctx, evt); err != nil {
		e.logger.Warn("failed to publish event", "event_type", evt.EventType(), "error", err)
	}
}
