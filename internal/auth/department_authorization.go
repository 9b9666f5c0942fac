package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/transport"
)

// DepartmentAuthorization guards routes by the caller's department.
type DepartmentAuthorization struct {
	*transport.BaseHandler
}

func NewDepartmentAuthorization(logger *slog.Logger) *DepartmentAuthorization {
	return &DepartmentAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// Require lets the request through only when the caller belongs to one of
// depts. It must run after AuthMiddleware.
func (da *DepartmentAuthorization) Require(message string, depts ...department.Department) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := da.CurrentUser(w, r)
			if !ok {
				return
			}

			if !caller.InDepartment(depts...) {
				da.Logger.WarnContext(r.Context(), "access denied: department not allowed",
					"user_id", caller.ID,
					"department", caller.Department,
					"allowed", strings.Join(department.Strings(depts), ","),
					"path", r.URL.Path)
				da.HandleServiceError(w, internal.NewForbiddenError(message, internal.ErrCodeDepartmentDenied))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireHR restricts a route to HR users.
func (da *DepartmentAuthorization) RequireHR(action string) func(http.Handler) http.Handler {
	return da.Require("Only HR users can "+action, department.HR)
}

// RequireTeamMemberDepartment restricts a route to the departments HR teams
// are built from.
func (da *DepartmentAuthorization) RequireTeamMemberDepartment() func(http.Handler) http.Handler {
	return da.Require("Only Tech, IT and Finance users have an assigned HR", department.TeamTargets...)
}
