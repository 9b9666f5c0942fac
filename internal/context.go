package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/deptdesk/internal/core/department"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the authenticated caller attached to a request context.
type User struct {
	ID         int64
	Name       string
	Email      string
	Department department.Department
}

func (u *User) IsHR() bool {
	return u != nil && u.Department == department.HR
}

// InDepartment reports whether the caller belongs to any of depts.
func (u *User) InDepartment(depts ...department.Department) bool {
	if u == nil {
		return false
	}
	for _, d := range depts {
		if u.Department == d {
			return true
		}
	}
	return false
}

func UserFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(ContextUserKey).(*User)
	return user, ok && user != nil
}

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
