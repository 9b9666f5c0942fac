package expense

import (
	"strings"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/category"
	"github.com/frahmantamala/deptdesk/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength = 500
	amountPlaces         = 2
)

// CreateExpenseDTO is the submission payload. Date accepts RFC 3339 or a
// plain YYYY-MM-DD day.
type CreateExpenseDTO struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Date        string           `json:"date"`
}

func (dto *CreateExpenseDTO) Normalize() {
	dto.Description = strings.TrimSpace(dto.Description)
	dto.Category = strings.ToLower(strings.TrimSpace(dto.Category))
	if dto.Category == "" {
		dto.Category = category.DefaultCategory
	}
	dto.Date = strings.TrimSpace(dto.Date)
}

func (dto CreateExpenseDTO) Validate(now time.Time) (time.Time, error) {
	if dto.Description == "" || dto.Amount == nil {
		return time.Time{}, internal.NewValidationError("Description and amount are required", internal.ErrCodeRequiredField)
	}

	date := now
	if dto.Date != "" {
		parsed, err := parseDate(dto.Date)
		if err != nil {
			return time.Time{}, internal.NewValidationFieldError("date", "date must be an RFC 3339 timestamp or YYYY-MM-DD", internal.ErrCodeInvalidDate)
		}
		date = parsed
	}

	v := validation.NewValidator()
	v.Field("description", dto.Description).MaxLength(maxDescriptionLength)
	v.Field("amount", *dto.Amount).
		Custom(func(value interface{}) *internal.AppError {
			if a := value.(decimal.Decimal); !a.IsPositive() {
				return internal.NewValidationFieldError("amount", "amount must be greater than 0", internal.ErrCodeInvalidAmount)
			}
			return nil
		}).
		MaxDecimalPlaces(amountPlaces, internal.ErrCodeInvalidAmount)
	v.Field("date", date).NotAfter(now)
	if err := v.Validate(); err != nil {
		return time.Time{}, err
	}
	return date, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

type ReviewExpenseDTO struct {
	Status  string `json:"status"`
	HRNotes string `json:"hrNotes"`
}

func (dto *ReviewExpenseDTO) Normalize() {
	dto.Status = strings.ToLower(strings.TrimSpace(dto.Status))
	dto.HRNotes = strings.TrimSpace(dto.HRNotes)
}

func (dto ReviewExpenseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", dto.Status).
		Required().
		OneOf(reviewOutcomeStrings(), internal.ErrCodeInvalidStatus)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func reviewOutcomeStrings() []string {
	out := make([]string, len(ReviewOutcomes))
	for i, s := range ReviewOutcomes {
		out[i] = string(s)
	}
	return out
}
