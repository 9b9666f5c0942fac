package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	teamDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/team"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/team"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) preloadMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("team_members.id ASC")
	})
}

func (r *TeamRepository) GetByHRUser(ctx context.Context, hrUserID int64) (*team.Team, error) {
	var row teamDatamodel.Team
	err := r.preloadMembers(r.db.WithContext(ctx)).
		Where("hr_user_id = ?", hrUserID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTeamNotFound
		}
		return nil, err
	}
	return team.FromDataModel(&row), nil
}

func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	row := &teamDatamodel.Team{
		HRUserID:  t.HRUserID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	t.ID = row.ID
	return nil
}

// AddMember relies on the (department, user_id) unique index to reject a
// user that another team already claims.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID int64, dept department.Department, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := &teamDatamodel.Member{
			TeamID:     teamID,
			UserID:     userID,
			Department: string(dept),
			CreatedAt:  at,
		}
		if err := tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return internal.NewConflictError("User is already assigned to another HR team", internal.ErrCodeMemberAssigned)
			}
			return err
		}
		return tx.Model(&teamDatamodel.Team{}).
			Where("id = ?", teamID).
			Update("updated_at", at).Error
	})
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID int64, dept department.Department) error {
	q := r.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID)
	if dept != "" {
		q = q.Where("department = ?", string(dept))
	}
	return q.Delete(&teamDatamodel.Member{}).Error
}

// FindByMember returns the first team listing userID under any department,
// or nil when there is none.
func (r *TeamRepository) FindByMember(ctx context.Context, userID int64) (*team.Team, error) {
	var member teamDatamodel.Member
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var row teamDatamodel.Team
	if err := r.preloadMembers(r.db.WithContext(ctx)).First(&row, member.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return team.FromDataModel(&row), nil
}

func (r *TeamRepository) AssignedUserIDs(ctx context.Context, dept department.Department) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&teamDatamodel.Member{}).
		Where("department = ?", string(dept)).
		Pluck("user_id", &ids).Error
	return ids, err
}
