package routing

import (
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/issue"
	"github.com/frahmantamala/deptdesk/internal/user"
)

type RouteDTO struct {
	Department     string `json:"department"`
	AssignedUserID *int64 `json:"assignedUserId"`
}

type RouteResponse struct {
	Message string       `json:"message"`
	Issue   *issue.Issue `json:"issue"`
}

type RoutingResult struct {
	IssueID    int64                 `json:"issueId"`
	Title      string                `json:"title"`
	Category   issue.Category        `json:"category"`
	RoutedTo   department.Department `json:"routedTo"`
	AssignedTo string                `json:"assignedTo"`
}

type AutoRouteReport struct {
	Message        string          `json:"message"`
	RoutedCount    int             `json:"routedCount"`
	SkippedCount   int             `json:"skippedCount"`
	RoutingResults []RoutingResult `json:"routingResults"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

type Suggestion struct {
	IssueID              int64                 `json:"issueId"`
	Title                string                `json:"title"`
	Category             issue.Category        `json:"category"`
	Priority             issue.Priority        `json:"priority"`
	ReportedBy           string                `json:"reportedBy"`
	ReportedByDepartment department.Department `json:"reportedByDepartment"`
	SuggestedDepartment  department.Department `json:"suggestedDepartment"`
	AvailableUsers       []user.Summary        `json:"availableUsers"`
	Confidence           Confidence            `json:"confidence"`
}
