package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/core/events"
	"github.com/frahmantamala/deptdesk/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// CredentialRepository stores accounts and their password hashes.
type CredentialRepository interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

type Options struct {
	BCryptCost        int
	MinPasswordLength int
}

// Service is the main auth service with dependencies
type Service struct {
	repo       CredentialRepository
	tokens     TokenGenerator
	store      TokenStore
	events     events.Publisher
	logger     *slog.Logger
	bcryptCost int
	minPassLen int
	now        func() time.Time
}

func NewService(repo CredentialRepository, tokens TokenGenerator, store TokenStore, publisher events.Publisher, logger *slog.Logger, opts Options) *Service {
	if opts.BCryptCost == 0 {
		opts.BCryptCost = bcrypt.DefaultCost
	}
	if opts.MinPasswordLength == 0 {
		opts.MinPasswordLength = 6
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		store:      store,
		events:     publisher,
		logger:     logger,
		bcryptCost: opts.BCryptCost,
		minPassLen: opts.MinPasswordLength,
		now:        time.Now,
	}
}

// Signup registers a new account and signs the caller in.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*AuthResponse, error) {
	dto.Normalize()
	if err := dto.Validate(s.minPassLen); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		s.logger.Error("failed to look up email", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if existing != nil {
		return nil, emailTakenError()
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	dept, _ := department.Parse(dto.Department)
	now := s.now()
	u := &user.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Department:   dept,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	token, _, err := s.tokens.Generate(u)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "department", u.Department)
	if s.events != nil {
		evt := events.NewUserRegisteredEvent(u.ID, string(u.Department), now)
		if err := s.events.Publish(ctx, evt); err != nil {
			s.logger.Warn("failed to publish event", "event_type", evt.EventType(), "error", err)
		}
	}

	return &AuthResponse{
		User:    newUserView(u),
		Token:   token,
		Message: "User created successfully",
	}, nil
}

// Signin checks credentials and issues a token.
func (s *Service) Signin(ctx context.Context, dto SigninDTO) (*AuthResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", "error", err)
		return nil, internal.NewInternalError("failed to sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("signin rejected", "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Generate(u)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{
		User:    newUserView(u),
		Token:   token,
		Message: "Login successful",
	}, nil
}

// Authenticate resolves a bearer token into the calling user. The user is
// reloaded so department changes apply to tokens issued earlier.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*internal.User, error) {
	if tokenString == "" {
		return nil, internal.ErrMissingToken
	}
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	if s.store != nil && claims.ID != "" {
		revoked, err := s.store.IsRevoked(ctx, claims.ID)
		if err == nil && revoked {
			return nil, internal.ErrTokenRevoked
		}
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return u.Principal(), nil
}

// Signout revokes the presented token for the rest of its lifetime.
func (s *Service) Signout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return err
	}
	if s.store == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.store.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("failed to revoke token", "error", err, "user_id", claims.UserID)
	}
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func emailTakenError() *internal.AppError {
	return internal.NewValidationError("User with this email already exists", internal.ErrCodeEmailTaken)
}
