package issue

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	issueDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/issue"
	"github.com/frahmantamala/deptdesk/internal/core/department"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusRouted   Status = "routed"
	StatusWorking  Status = "working"
	StatusResolved Status = "resolved"
	StatusClosed   Status = "closed"
)

var Statuses = []Status{StatusPending, StatusRouted, StatusWorking, StatusResolved, StatusClosed}

// DepartmentStatuses are the states in which an issue shows up on the
// dashboard of the department it was routed to.
var DepartmentStatuses = []Status{StatusRouted, StatusWorking, StatusResolved}

var transitions = map[Status][]Status{
	StatusPending:  {StatusRouted, StatusWorking, StatusResolved},
	StatusRouted:   {StatusWorking},
	StatusWorking:  {StatusResolved, StatusPending},
	StatusResolved: {StatusClosed, StatusWorking},
	StatusClosed:   nil,
}

// CanRoute reports whether an issue in status s may be sent to a
// department. An already routed issue may be re-routed.
func CanRoute(s Status) bool {
	return s == StatusRouted || CanTransition(s, StatusRouted)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an issue may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryHardware Category = "hardware"
	CategorySoftware Category = "software"
	CategoryNetwork  Category = "network"
	CategorySalary   Category = "salary"
	CategoryBenefits Category = "benefits"
	CategoryPolicy   Category = "policy"
	CategoryTraining Category = "training"
	CategoryOther    Category = "other"
)

var Categories = []Category{
	CategoryHardware, CategorySoftware, CategoryNetwork,
	CategorySalary, CategoryBenefits,
	CategoryPolicy, CategoryTraining,
	CategoryOther,
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

type Issue struct {
	ID                           int64                  `json:"id"`
	Title                        string                 `json:"title"`
	Description                  string                 `json:"description"`
	ReportedBy                   string                 `json:"reportedBy"`
	ReportedByDepartment         department.Department  `json:"reportedByDepartment"`
	ReportedByUserID             int64                  `json:"reportedByUserId"`
	Category                     Category               `json:"category"`
	Priority                     Priority               `json:"priority"`
	Status                       Status                 `json:"status"`
	AssignedToHR                 *int64                 `json:"assignedToHR"`
	AssignedToHRName             *string                `json:"assignedToHRName"`
	RoutedToDepartment           *department.Department `json:"routedToDepartment"`
	AssignedToDepartmentUser     *int64                 `json:"assignedToDepartmentUser"`
	AssignedToDepartmentUserName *string                `json:"assignedToDepartmentUserName"`
	HRNotes                      string                 `json:"hrNotes"`
	ResolutionNotes              string                 `json:"resolutionNotes"`
	AutoRouted                   bool                   `json:"autoRouted"`
	CreatedAt                    time.Time              `json:"createdAt"`
	UpdatedAt                    time.Time              `json:"updatedAt"`

	unsavedNotes []string
}

// AppendNote adds a line to the HR notes.
func (i *Issue) AppendNote(note string) {
	i.unsavedNotes = append(i.unsavedNotes, note)
	if i.HRNotes == "" {
		i.HRNotes = note
		return
	}
	i.HRNotes += "\n" + note
}

// TakeUnsavedNotes returns the notes appended since the issue was loaded,
// joined by newlines, and forgets them.
func (i *Issue) TakeUnsavedNotes() string {
	notes := strings.Join(i.unsavedNotes, "\n")
	i.unsavedNotes = nil
	return notes
}

// Route moves the issue to routed and records the department assignment.
func (i *Issue) Route(dept department.Department, assigneeID int64, assigneeName, note string, auto bool, at time.Time) error {
	if !CanRoute(i.Status) {
		return InvalidTransitionError(i.Status, StatusRouted)
	}
	i.Status = StatusRouted
	i.RoutedToDepartment = &dept
	i.AssignedToDepartmentUser = &assigneeID
	i.AssignedToDepartmentUserName = &assigneeName
	i.AutoRouted = auto
	i.AppendNote(note)
	i.UpdatedAt = at
	return nil
}

// Stamp formats the prefix of generated HR notes.
func Stamp(at time.Time) string {
	return "[" + at.UTC().Format(time.RFC3339) + "]"
}

func InvalidTransitionError(from, to Status) *internal.AppError {
	return internal.NewValidationError(
		fmt.Sprintf("Cannot change issue status from %s to %s", from, to),
		internal.ErrCodeInvalidTransition)
}

func ToDataModel(i *Issue) *issueDatamodel.Issue {
	var routed *string
	if i.RoutedToDepartment != nil {
		d := string(*i.RoutedToDepartment)
		routed = &d
	}
	return &issueDatamodel.Issue{
		ID:                           i.ID,
		Title:                        i.Title,
		Description:                  i.Description,
		ReportedBy:                   i.ReportedBy,
		ReportedByDepartment:         string(i.ReportedByDepartment),
		ReportedByUserID:             i.ReportedByUserID,
		Category:                     string(i.Category),
		Priority:                     string(i.Priority),
		Status:                       string(i.Status),
		AssignedToHR:                 i.AssignedToHR,
		AssignedToHRName:             i.AssignedToHRName,
		RoutedToDepartment:           routed,
		AssignedToDepartmentUser:     i.AssignedToDepartmentUser,
		AssignedToDepartmentUserName: i.AssignedToDepartmentUserName,
		HRNotes:                      i.HRNotes,
		ResolutionNotes:              i.ResolutionNotes,
		AutoRouted:                   i.AutoRouted,
		CreatedAt:                    i.CreatedAt,
		UpdatedAt:                    i.UpdatedAt,
	}
}

func FromDataModel(i *issueDatamodel.Issue) *Issue {
	var routed *department.Department
	if i.RoutedToDepartment != nil {
		d := department.Department(*i.RoutedToDepartment)
		routed = &d
	}
	return &Issue{
		ID:                           i.ID,
		Title:                        i.Title,
		Description:                  i.Description,
		ReportedBy:                   i.ReportedBy,
		ReportedByDepartment:         department.Department(i.ReportedByDepartment),
		ReportedByUserID:             i.ReportedByUserID,
		Category:                     Category(i.Category),
		Priority:                     Priority(i.Priority),
		Status:                       Status(i.Status),
		AssignedToHR:                 i.AssignedToHR,
		AssignedToHRName:             i.AssignedToHRName,
		RoutedToDepartment:           routed,
		AssignedToDepartmentUser:     i.AssignedToDepartmentUser,
		AssignedToDepartmentUserName: i.AssignedToDepartmentUserName,
		HRNotes:                      i.HRNotes,
		ResolutionNotes:              i.ResolutionNotes,
		AutoRouted:                   i.AutoRouted,
		CreatedAt:                    i.CreatedAt,
		UpdatedAt:                    i.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*issueDatamodel.Issue) []*Issue {
	out := make([]*Issue, len(rows))
	for i, row := range rows {
		out[i] = FromDataModel(row)
	}
	return out
}

func StatusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func categoryStrings() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}

func priorityStrings() []string {
	out := make([]string, len(Priorities))
	for i, p := range Priorities {
		out[i] = string(p)
	}
	return out
}
