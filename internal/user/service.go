package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/core/events"
)

// Repository is the read/write surface of the user directory.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	ListByDepartment(ctx context.Context, dept department.Department) ([]*User, error)
	UpdateDepartment(ctx context.Context, id int64, dept department.Department, at time.Time) error
}

type Service struct {
	repo   Repository
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to get user", err)
	}
	return u, nil
}

// ListByDepartment returns every user of dept in creation order.
func (s *Service) ListByDepartment(ctx context.Context, dept department.Department) ([]*User, error) {
	if !dept.IsValid() {
		return nil, internal.NewValidationError("Invalid department: "+string(dept), internal.ErrCodeInvalidDepartment)
	}
	users, err := s.repo.ListByDepartment(ctx, dept)
	if err != nil {
		s.logger.Error("failed to list department users", "error", err, "department", dept)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// ChangeDepartment moves a user to another department. Team memberships and
// issue snapshots are left as they are.
func (s *Service) ChangeDepartment(ctx context.Context, actor *internal.User, userID int64, dto ChangeDepartmentDTO) (*User, error) {
	if !actor.IsHR() {
		return nil, internal.NewForbiddenError("Only HR users can change user departments", internal.ErrCodeDepartmentDenied)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	newDept := department.Department(dto.NewDepartment)

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Department == newDept {
		return u, nil
	}

	now := s.now()
	if err := s.repo.UpdateDepartment(ctx, userID, newDept, now); err != nil {
		s.logger.Error("failed to change department", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to change department", err)
	}

	previous := u.Department
	u.Department = newDept
	u.UpdatedAt = now

	s.logger.Info("user department changed",
		"user_id", userID,
		"from", previous,
		"to", newDept,
		"changed_by", actor.ID)
	if s.events != nil {
		evt := events.NewUserDepartmentChangedEvent(userID, string(previous), string(newDept), now)
		if err := s.events.Publish(ctx, evt); err != nil {
			s.logger.Warn("failed to publish event", "event_type", evt.EventType(), "error", err)
		}
	}

	return u, nil
}
