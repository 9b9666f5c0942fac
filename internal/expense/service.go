package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, limit, offset int) ([]*Expense, error)
	ListByUser(ctx context.Context, userID int64) ([]*Expense, error)
	UpdateIfStatus(ctx context.Context, e *Expense, expected Status) (bool, error)
}

// CategoryChecker validates submitted categories against the catalogue.
type CategoryChecker interface {
	IsValidCategory(ctx context.Context, name string) (bool, error)
}

type Service struct {
	repo       Repository
	categories CategoryChecker
	events     events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, categories CategoryChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		events:     publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit files a pending expense on behalf of the caller.
func (s *Service) Submit(ctx context.Context, actor *internal.User, dto CreateExpenseDTO) (*Expense, error) {
	dto.Normalize()
	now := s.now()
	date, err := dto.Validate(now)
	if err != nil {
		s.logger.Debug("expense validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	ok, err := s.categories.IsValidCategory(ctx, dto.Category)
	if err != nil {
		return nil, internal.NewInternalError("failed to check category", err)
	}
	if !ok {
		return nil, internal.NewValidationFieldError("category", "Invalid expense category", internal.ErrCodeInvalidCategory)
	}

	e := &Expense{
		Description:         dto.Description,
		Amount:              dto.Amount.Round(amountPlaces),
		Category:            dto.Category,
		Date:                date,
		CreatedBy:           actor.Name,
		CreatedByDepartment: actor.Department,
		CreatedByUserID:     actor.ID,
		Status:              StatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense submitted",
		"expense_id", e.ID,
		"user_id", actor.ID,
		"amount", e.Amount.StringFixed(amountPlaces),
		"category", e.Category)
	if s.events != nil {
		evt := events.NewExpenseSubmittedEvent(e.ID, actor.ID, now)
		if err := s.events.Publish(ctx, evt); err != nil {
			s.logger.Warn("failed to publish event", "event_type", evt.EventType(), "error", err)
		}
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrExpenseNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to get expense", err)
	}
	return e, nil
}

// List returns expenses newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Expense, error) {
	expenses, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return nonNil(expenses), nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Expense, error) {
	expenses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user expenses", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return nonNil(expenses), nil
}

// Review approves or rejects a pending expense. Only HR may review.
func (s *Service) Review(ctx context.Context, actor *internal.User, id int64, dto ReviewExpenseDTO) (*Expense, error) {
	if !actor.IsHR() {
		s.logger.Warn("expense review denied", "expense_id", id, "user_id", actor.ID, "department", actor.Department)
		return nil, internal.NewForbiddenError("Only HR users can approve expenses", internal.ErrCodeDepartmentDenied)
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsPending() {
		s.logger.Debug("expense already reviewed", "expense_id", id, "status", e.Status)
		return nil, internal.ErrExpenseReviewed
	}

	now := s.now()
	e.Review(Status(dto.Status), actor.ID, actor.Name, dto.HRNotes, now)
	written, err := s.repo.UpdateIfStatus(ctx, e, StatusPending)
	if err != nil {
		s.logger.Error("failed to save expense review", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to review expense", err)
	}
	if !written {
		return nil, internal.ErrExpenseReviewed
	}

	s.logger.Info("expense reviewed",
		"expense_id", id,
		"status", e.Status,
		"reviewer_id", actor.ID,
		"amount", e.Amount.StringFixed(amountPlaces))
	if s.events != nil {
		evt := events.NewExpenseReviewedEvent(e.ID, string(e.Status), actor.ID, now)
		if err := s.events.Publish(ctx, evt); err != nil {
			s.logger.Warn("failed to publish event", "event_type", evt.EventType(), "error", err)
		}
	}
	return e, nil
}

func nonNil(expenses []*Expense) []*Expense {
	if expenses == nil {
		return []*Expense{}
	}
	return expenses
}
