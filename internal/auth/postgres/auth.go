package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/deptdesk/internal"
	userDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/user"
	"github.com/frahmantamala/deptdesk/internal/user"
	"gorm.io/gorm"
)

// Repository is the credential store over the users table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

// Create inserts the account and copies the generated id back onto u. A
// duplicate email surfaces as a validation error.
func (r *Repository) Create(ctx context.Context, u *user.User) error {
	model := user.ToDataModel(u)
	model.Email = strings.ToLower(model.Email)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewValidationError("User with this email already exists", internal.ErrCodeEmailTaken)
		}
		return err
	}
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}
