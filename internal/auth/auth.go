package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by every access token. ID (jti) identifies the token for
// revocation.
type Claims struct {
	UserID     int64                 `json:"id"`
	Email      string                `json:"email"`
	Department department.Department `json:"department"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and verifies access tokens.
type TokenGenerator interface {
	Generate(u *user.User) (token string, claims *Claims, err error)
	Validate(tokenString string) (*Claims, error)
}

// TokenStore remembers revoked token ids until they expire.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// UserView is the account shape returned by signup and signin.
type UserView struct {
	ID         int64                 `json:"id"`
	Name       string                `json:"name"`
	Email      string                `json:"email"`
	Department department.Department `json:"department"`
}

type AuthResponse struct {
	User    UserView `json:"user"`
	Token   string   `json:"token"`
	Message string   `json:"message"`
}

func newUserView(u *user.User) UserView {
	return UserView{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
	}
}
