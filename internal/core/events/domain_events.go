package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeIssueCreated          = "issue.created"
	EventTypeIssueRouted           = "issue.routed"
	EventTypeIssueStatusChanged    = "issue.status_changed"
	EventTypeExpenseSubmitted      = "expense.submitted"
	EventTypeExpenseReviewed       = "expense.reviewed"
	EventTypeUserRegistered        = "user.registered"
	EventTypeUserDepartmentChanged = "user.department_changed"
)

// All lists every event type the service publishes.
var All = []string{
	EventTypeIssueCreated,
	EventTypeIssueRouted,
	EventTypeIssueStatusChanged,
	EventTypeExpenseSubmitted,
	EventTypeExpenseReviewed,
	EventTypeUserRegistered,
	EventTypeUserDepartmentChanged,
}

func newBase(eventType string, at time.Time, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: at,
		Data:      data,
	}
}

type IssueCreatedEvent struct {
	BaseEvent
	IssueID    int64  `json:"issue_id"`
	Category   string `json:"category"`
	ReporterID int64  `json:"reporter_id"`
}

func NewIssueCreatedEvent(issueID int64, category string, reporterID int64, at time.Time) *IssueCreatedEvent {
	return &IssueCreatedEvent{
		BaseEvent: newBase(EventTypeIssueCreated, at, map[string]interface{}{
			"issue_id":    issueID,
			"category":    category,
			"reporter_id": reporterID,
		}),
		IssueID:    issueID,
		Category:   category,
		ReporterID: reporterID,
	}
}

type IssueRoutedEvent struct {
	BaseEvent
	IssueID    int64  `json:"issue_id"`
	Department string `json:"department"`
	AssigneeID int64  `json:"assignee_id"`
	AutoRouted bool   `json:"auto_routed"`
}

func NewIssueRoutedEvent(issueID int64, department string, assigneeID int64, autoRouted bool, at time.Time) *IssueRoutedEvent {
	return &IssueRoutedEvent{
		BaseEvent: newBase(EventTypeIssueRouted, at, map[string]interface{}{
			"issue_id":    issueID,
			"department":  department,
			"assignee_id": assigneeID,
			"auto_routed": autoRouted,
		}),
		IssueID:    issueID,
		Department: department,
		AssigneeID: assigneeID,
		AutoRouted: autoRouted,
	}
}

type IssueStatusChangedEvent struct {
	BaseEvent
	IssueID int64  `json:"issue_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

func NewIssueStatusChangedEvent(issueID int64, from, to string, at time.Time) *IssueStatusChangedEvent {
	return &IssueStatusChangedEvent{
		BaseEvent: newBase(EventTypeIssueStatusChanged, at, map[string]interface{}{
			"issue_id": issueID,
			"from":     from,
			"to":       to,
		}),
		IssueID: issueID,
		From:    from,
		To:      to,
	}
}

type ExpenseEvent struct {
	BaseEvent
	ExpenseID int64  `json:"expense_id"`
	Status    string `json:"status"`
	ActorID   int64  `json:"actor_id"`
}

func NewExpenseSubmittedEvent(expenseID, submitterID int64, at time.Time) *ExpenseEvent {
	return newExpenseEvent(EventTypeExpenseSubmitted, expenseID, "pending", submitterID, at)
}

func NewExpenseReviewedEvent(expenseID int64, status string, reviewerID int64, at time.Time) *ExpenseEvent {
	return newExpenseEvent(EventTypeExpenseReviewed, expenseID, status, reviewerID, at)
}

func newExpenseEvent(eventType string, expenseID int64, status string, actorID int64, at time.Time) *ExpenseEvent {
	return &ExpenseEvent{
		BaseEvent: newBase(eventType, at, map[string]interface{}{
			"expense_id": expenseID,
			"status":     status,
			"actor_id":   actorID,
		}),
		ExpenseID: expenseID,
		Status:    status,
		ActorID:   actorID,
	}
}

type UserEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	Department string `json:"department"`
}

func NewUserRegisteredEvent(userID int64, department string, at time.Time) *UserEvent {
	return &UserEvent{
		BaseEvent: newBase(EventTypeUserRegistered, at, map[string]interface{}{
			"user_id":    userID,
			"department": department,
		}),
		UserID:     userID,
		Department: department,
	}
}

func NewUserDepartmentChangedEvent(userID int64, from, to string, at time.Time) *UserEvent {
	return &UserEvent{
		BaseEvent: newBase(EventTypeUserDepartmentChanged, at, map[string]interface{}{
			"user_id":         userID,
			"from_department": from,
			"department":      to,
		}),
		UserID:     userID,
		Department: to,
	}
}
