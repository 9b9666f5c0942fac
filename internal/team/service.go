package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/user"
)

// Repository persists teams and their member rows. AddMember reports a
// member already claimed by another team for the same department as a
// ConflictError.
type Repository interface {
	GetByHRUser(ctx context.Context, hrUserID int64) (*Team, error)
	Create(ctx context.Context, t *Team) error
	AddMember(ctx context.Context, teamID, userID int64, dept department.Department, at time.Time) error
	RemoveMember(ctx context.Context, teamID, userID int64, dept department.Department) error
	FindByMember(ctx context.Context, userID int64) (*Team, error)
	AssignedUserIDs(ctx context.Context, dept department.Department) ([]int64, error)
}

// Directory is the slice of the user directory the registry reads.
type Directory interface {
	GetByID(ctx context.Context, userID int64) (*user.User, error)
	ListByDepartment(ctx context.Context, dept department.Department) ([]*user.User, error)
}

type Service struct {
	repo   Repository
	users  Directory
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, users Directory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// GetOrCreateTeam returns the team owned by hrUserID, creating an empty one
// on first access.
func (s *Service) GetOrCreateTeam(ctx context.Context, hrUserID int64) (*Team, error) {
	owner, err := s.users.GetByID(ctx, hrUserID)
	if err != nil {
		return nil, err
	}
	if owner.Department != department.HR {
		return nil, internal.NewForbiddenError("Only HR users can access team management", internal.ErrCodeDepartmentDenied)
	}

	t, err := s.repo.GetByHRUser(ctx, hrUserID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, internal.ErrTeamNotFound) {
		s.logger.Error("failed to load team", "error", err, "hr_user_id", hrUserID)
		return nil, internal.NewInternalError("failed to load team", err)
	}

	now := s.now()
	t = &Team{HRUserID: hrUserID, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, t); err != nil {
		// A concurrent first access may have created it already.
		if existing, getErr := s.repo.GetByHRUser(ctx, hrUserID); getErr == nil {
			return existing, nil
		}
		s.logger.Error("failed to create team", "error", err, "hr_user_id", hrUserID)
		return nil, internal.NewInternalError("failed to create team", err)
	}
	s.logger.Info("team created", "team_id", t.ID, "hr_user_id", hrUserID)
	return t, nil
}

// AddMember puts targetUserID into hrUserID's member list for dept.
func (s *Service) AddMember(ctx context.Context, hrUserID, targetUserID int64, dept department.Department) (*Team, error) {
	if !dept.IsTeamTarget() {
		return nil, invalidTeamDepartment()
	}

	t, err := s.GetOrCreateTeam(ctx, hrUserID)
	if err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target.Department != dept {
		return nil, internal.NewValidationError(
			fmt.Sprintf("User %s is not in the %s department", target.Name, dept),
			internal.ErrCodeDepartmentMismatch)
	}
	if t.HasMember(targetUserID, dept) {
		return nil, internal.NewConflictError("User is already in your team", internal.ErrCodeMemberExists)
	}

	if err := s.repo.AddMember(ctx, t.ID, targetUserID, dept, s.now()); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to add team member", "error", err, "team_id", t.ID, "user_id", targetUserID)
		return nil, internal.NewInternalError("failed to add team member", err)
	}

	s.logger.Info("team member added",
		"team_id", t.ID,
		"hr_user_id", hrUserID,
		"user_id", targetUserID,
		"department", dept)
	return s.reload(ctx, hrUserID)
}

// RemoveMember drops targetUserID from the dept list, or from every list
// when dept is empty. Removing a user that is not a member is a no-op.
func (s *Service) RemoveMember(ctx context.Context, hrUserID, targetUserID int64, dept department.Department) (*Team, error) {
	if dept != "" && !dept.IsTeamTarget() {
		return nil, invalidTeamDepartment()
	}

	t, err := s.repo.GetByHRUser(ctx, hrUserID)
	if err != nil {
		if errors.Is(err, internal.ErrTeamNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to load team", err)
	}

	if err := s.repo.RemoveMember(ctx, t.ID, targetUserID, dept); err != nil {
		s.logger.Error("failed to remove team member", "error", err, "team_id", t.ID, "user_id", targetUserID)
		return nil, internal.NewInternalError("failed to remove team member", err)
	}

	s.logger.Info("team member removed", "team_id", t.ID, "user_id", targetUserID, "department", dept)
	return s.reload(ctx, hrUserID)
}

// FindTeamForMember returns the HR user whose team lists userID, or nil.
func (s *Service) FindTeamForMember(ctx context.Context, userID int64) (*user.User, error) {
	t, err := s.repo.FindByMember(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up team", err)
	}
	if t == nil {
		return nil, nil
	}
	owner, err := s.users.GetByID(ctx, t.HRUserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return owner, nil
}

// ListUnassigned returns the users of dept that no team lists under dept.
func (s *Service) ListUnassigned(ctx context.Context, dept department.Department) ([]*user.User, error) {
	if !dept.IsTeamTarget() {
		return nil, invalidTeamDepartment()
	}

	all, err := s.users.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, err
	}
	assignedIDs, err := s.repo.AssignedUserIDs(ctx, dept)
	if err != nil {
		return nil, internal.NewInternalError("failed to list team members", err)
	}

	assigned := make(map[int64]struct{}, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = struct{}{}
	}
	unassigned := make([]*user.User, 0, len(all))
	for _, u := range all {
		if _, ok := assigned[u.ID]; !ok {
			unassigned = append(unassigned, u)
		}
	}
	return unassigned, nil
}

// View resolves member ids into user summaries. Members whose account no
// longer exists are left out.
func (s *Service) View(ctx context.Context, t *Team) (*View, error) {
	owner, err := s.users.GetByID(ctx, t.HRUserID)
	if err != nil {
		return nil, err
	}
	v := &View{
		ID:             t.ID,
		HRUser:         owner.Summary(),
		TechMembers:    []user.Summary{},
		ITMembers:      []user.Summary{},
		FinanceMembers: []user.Summary{},
	}
	for _, m := range t.Members {
		u, err := s.users.GetByID(ctx, m.UserID)
		if err != nil {
			if errors.Is(err, internal.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		switch m.Department {
		case department.Tech:
			v.TechMembers = append(v.TechMembers, u.Summary())
		case department.IT:
			v.ITMembers = append(v.ITMembers, u.Summary())
		case department.Finance:
			v.FinanceMembers = append(v.FinanceMembers, u.Summary())
		}
	}
	return v, nil
}

func (s *Service) reload(ctx context.Context, hrUserID int64) (*Team, error) {
	t, err := s.repo.GetByHRUser(ctx, hrUserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load team", err)
	}
	return t, nil
}

func invalidTeamDepartment() *internal.AppError {
	return internal.NewValidationError(
		"Department must be one of: "+strings.Join(department.Strings(department.TeamTargets), ", "),
		internal.ErrCodeInvalidDepartment)
}
