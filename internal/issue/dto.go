package issue

import (
	"strings"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/common/validation"
)

type CreateIssueDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// Normalize trims input and applies the category and priority defaults.
func (dto *CreateIssueDTO) Normalize() {
	dto.Title = strings.TrimSpace(dto.Title)
	dto.Description = strings.TrimSpace(dto.Description)
	dto.Category = strings.ToLower(strings.TrimSpace(dto.Category))
	dto.Priority = strings.ToLower(strings.TrimSpace(dto.Priority))
	if dto.Category == "" {
		dto.Category = string(CategoryOther)
	}
	if dto.Priority == "" {
		dto.Priority = string(PriorityMedium)
	}
}

func (dto CreateIssueDTO) Validate() error {
	if dto.Title == "" || dto.Description == "" {
		return internal.NewValidationError("Title and description are required", internal.ErrCodeRequiredField)
	}

	v := validation.NewValidator()
	v.Field("title", dto.Title).MaxLength(200)
	v.Field("description", dto.Description).MaxLength(5000)
	v.Field("category", dto.Category).OneOf(categoryStrings(), internal.ErrCodeInvalidCategory)
	v.Field("priority", dto.Priority).OneOf(priorityStrings(), internal.ErrCodeInvalidPriority)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateIssueDTO carries the fields a caller may change directly. HRNotes is
// appended to the existing notes rather than replacing them.
type UpdateIssueDTO struct {
	Status          string  `json:"status"`
	ResolutionNotes *string `json:"resolutionNotes"`
	HRNotes         *string `json:"hrNotes"`
}

func (dto *UpdateIssueDTO) Normalize() {
	dto.Status = strings.ToLower(strings.TrimSpace(dto.Status))
	if dto.HRNotes != nil {
		trimmed := strings.TrimSpace(*dto.HRNotes)
		dto.HRNotes = &trimmed
	}
}

func (dto UpdateIssueDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", dto.Status).OneOf(StatusStrings(Statuses), internal.ErrCodeInvalidStatus)
	if dto.ResolutionNotes != nil {
		v.Field("resolutionNotes", *dto.ResolutionNotes).MaxLength(5000)
	}
	if dto.HRNotes != nil {
		v.Field("hrNotes", *dto.HRNotes).MaxLength(5000)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
