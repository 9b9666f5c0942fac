package issue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/core/events"
	"github.com/frahmantamala/deptdesk/internal/user"
)

// Repository is the issue store. UpdateIfStatus writes the mutable fields
// only while the stored status still equals expected and reports whether a
// row was written.
type Repository interface {
	Create(ctx context.Context, i *Issue) error
	GetByID(ctx context.Context, id int64) (*Issue, error)
	List(ctx context.Context, limit, offset int) ([]*Issue, error)
	ListByReporter(ctx context.Context, reporter string) ([]*Issue, error)
	ListByDepartment(ctx context.Context, dept department.Department, statuses []Status) ([]*Issue, error)
	ListByStatus(ctx context.Context, status Status) ([]*Issue, error)
	UpdateIfStatus(ctx context.Context, i *Issue, expected Status) (bool, error)
}

// TeamFinder resolves the HR user whose team covers a member.
type TeamFinder interface {
	FindTeamForMember(ctx context.Context, userID int64) (*user.User, error)
}

type Service struct {
	repo   Repository
	teams  TeamFinder
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, teams TeamFinder, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		teams:  teams,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

// Create files a new pending issue for actor. Issues from non-HR users are
// stamped with the HR user whose team covers them, when there is one.
func (s *Service) Create(ctx context.Context, actor *internal.User, dto CreateIssueDTO) (*Issue, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	i := &Issue{
		Title:                dto.Title,
		Description:          dto.Description,
		ReportedBy:           actor.Name,
		ReportedByDepartment: actor.Department,
		ReportedByUserID:     actor.ID,
		Category:             Category(dto.Category),
		Priority:             Priority(dto.Priority),
		Status:               StatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if !actor.IsHR() && s.teams != nil {
		owner, err := s.teams.FindTeamForMember(ctx, actor.ID)
		if err != nil {
			s.logger.Warn("team lookup failed, creating issue without HR assignment", "error", err, "user_id", actor.ID)
		} else if owner != nil {
			i.AssignedToHR = &owner.ID
			i.AssignedToHRName = &owner.Name
		}
	}

	if err := s.repo.Create(ctx, i); err != nil {
		s.logger.Error("failed to create issue", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create issue", err)
	}

	s.logger.Info("issue created",
		"issue_id", i.ID,
		"category", i.Category,
		"priority", i.Priority,
		"user_id", actor.ID)
	if s.events != nil {
		evt := events.NewIssueCreatedEvent(i.ID, string(i.Category), actor.ID, now)
		if err := s.events.Publish(ctx, evt); err != nil {
			s.logger.Warn("failed to publish event", "event_type", evt.EventType(), "error", err)
		}
	}
	return i, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Issue, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrIssueNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get issue", "error", err, "issue_id", id)
		return nil, internal.NewInternalError("failed to get issue", err)
	}
	return i, nil
}

// List returns every issue, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Issue, error) {
	issues, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list issues", "error", err)
		return nil, internal.NewInternalError("failed to list issues", err)
	}
	return issues, nil
}

// ListByReporter returns the issues filed under a reporter display name.
func (s *Service) ListByReporter(ctx context.Context, reporter string) ([]*Issue, error) {
	issues, err := s.repo.ListByReporter(ctx, reporter)
	if err != nil {
		s.logger.Error("failed to list reporter issues", "error", err, "reporter", reporter)
		return nil, internal.NewInternalError("failed to list issues", err)
	}
	return issues, nil
}

// ListForDepartment returns the routed, in-progress and resolved issues of
// dept. Only HR and members of dept may read them.
func (s *Service) ListForDepartment(ctx context.Context, actor *internal.User, dept department.Department) ([]*Issue, error) {
	if !dept.IsValid() {
		return nil, internal.NewValidationError("Invalid department: "+string(dept), internal.ErrCodeInvalidDepartment)
	}
	if !actor.IsHR() && actor.Department != dept {
		return nil, internal.NewForbiddenError("Access denied to this department's issues", internal.ErrCodeDepartmentDenied)
	}
	issues, err := s.repo.ListByDepartment(ctx, dept, DepartmentStatuses)
	if err != nil {
		s.logger.Error("failed to list department issues", "error", err, "department", dept)
		return nil, internal.NewInternalError("failed to list issues", err)
	}
	return issues, nil
}

// Update applies a status change, resolution notes and HR notes. Routing
// goes through the routing engine instead.
func (s *Service) Update(ctx context.Context, actor *internal.User, id int64, dto UpdateIssueDTO) (*Issue, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	i, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	read := i.Status
	target := Status(dto.Status)

	if dto.HRNotes != nil && *dto.HRNotes != "" && !actor.IsHR() {
		return nil, internal.NewForbiddenError("Only HR users can add HR notes", internal.ErrCodeDepartmentDenied)
	}

	if target != "" && target != read {
		if target == StatusRouted {
			return nil, internal.NewValidationError(
				"Use the routing endpoints to route an issue",
				internal.ErrCodeInvalidTransition)
		}
		if !CanTransition(read, target) {
			return nil, InvalidTransitionError(read, target)
		}
		if read == StatusWorking && target == StatusPending && !actor.IsHR() {
			return nil, internal.NewForbiddenError("Only HR users can return an issue to pending", internal.ErrCodeDepartmentDenied)
		}
		i.Status = target
	}

	now := s.now()
	if dto.ResolutionNotes != nil {
		i.ResolutionNotes = *dto.ResolutionNotes
	}
	if dto.HRNotes != nil && *dto.HRNotes != "" {
		i.AppendNote(Stamp(now) + " " + actor.Name + ": " + *dto.HRNotes)
	}
	i.UpdatedAt = now

	written, err := s.repo.UpdateIfStatus(ctx, i, read)
	if err != nil {
		s.logger.Error("failed to update issue", "error", err, "issue_id", id)
		return nil, internal.NewInternalError("failed to update issue", err)
	}
	if !written {
		s.logger.Warn("issue update lost a concurrent write", "issue_id", id, "expected_status", read)
		return nil, internal.ErrConcurrentUpdate
	}

	if i.Status != read {
		s.logger.Info("issue status changed",
			"issue_id", id,
			"from", read,
			"to", i.Status,
			"user_id", actor.ID)
		if s.events != nil {
			evt := events.NewIssueStatusChangedEvent(id, string(read), string(i.Status), now)
			if err := s.events.Publish(ctx, evt); err != nil {
				s.logger.Warn("failed to publish event", "event_type", evt.EventType(), "error", err)
			}
		}
	}
	return i, nil
}
