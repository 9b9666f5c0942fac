package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	userDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/user"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) ListByDepartment(ctx context.Context, dept department.Department) ([]*user.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("department = ?", string(dept)).
		Order("created_at ASC, id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(users), nil
}

func (r *UserRepository) UpdateDepartment(ctx context.Context, id int64, dept department.Department, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"department": string(dept),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
