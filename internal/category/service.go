package category

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
)

// RepositoryAPI returns nil, nil from GetByName when the category is absent.
type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GetAllCategories lists the active categories ordered by name.
func (s *Service) GetAllCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, internal.NewInternalError("failed to get categories", err)
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		if c.IsActive {
			responses = append(responses, c.ToResponse())
		}
	}

	s.logger.Debug("retrieved categories", "count", len(responses))
	return responses, nil
}

// IsValidCategory reports whether name is an active catalogue entry.
func (s *Service) IsValidCategory(ctx context.Context, name string) (bool, error) {
	c, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Warn("error checking category validity", "name", name, "error", err)
		return false, err
	}
	return c != nil && c.IsActive, nil
}

// SetActive toggles a category without removing it, so expenses that
// already reference it stay readable.
func (s *Service) SetActive(ctx context.Context, name string, active bool) (*Category, error) {
	c, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, internal.NewInternalError("failed to load category", err)
	}
	if c == nil {
		return nil, internal.NewNotFoundError("Category not found", internal.ErrCodeInvalidCategory)
	}
	if active {
		c.Activate(s.now())
	} else {
		c.Deactivate(s.now())
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, internal.NewInternalError("failed to update category", err)
	}
	return c, nil
}

// EnsureDefaults creates every default category that does not exist yet and
// returns how many were added. Existing rows are left untouched.
func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, d := range Defaults {
		existing, err := s.repo.GetByName(ctx, d.Name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if err := s.repo.Create(ctx, NewCategory(d.Name, d.Description, s.now())); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		s.logger.Info("seeded expense categories", "created", created)
	}
	return created, nil
}
