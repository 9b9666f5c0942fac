package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/transport"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	ListByDepartment(ctx context.Context, dept department.Department) ([]*User, error)
	ChangeDepartment(ctx context.Context, actor *internal.User, userID int64, dto ChangeDepartmentDTO) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	u, err := h.Service.GetByID(r.Context(), caller.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ListByDepartment handles GET /users/department/{department}
func (h *Handler) ListByDepartment(w http.ResponseWriter, r *http.Request) {
	dept, ok := department.Parse(chi.URLParam(r, "department"))
	if !ok {
		h.HandleServiceError(w, internal.NewValidationError("Invalid department", internal.ErrCodeInvalidDepartment))
		return
	}
	h.listDepartment(w, r, dept)
}

// ListTechUsers handles GET /users/tech-users
func (h *Handler) ListTechUsers(w http.ResponseWriter, r *http.Request) {
	h.listDepartment(w, r, department.Tech)
}

func (h *Handler) listDepartment(w http.ResponseWriter, r *http.Request, dept department.Department) {
	users, err := h.Service.ListByDepartment(r.Context(), dept)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

// ChangeDepartment handles POST /users/{id}/change-department
func (h *Handler) ChangeDepartment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	userID, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ChangeDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.ChangeDepartment(r.Context(), caller, userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ChangeDepartmentResponse{
		Message: "Department changed to " + string(u.Department),
		User:    u,
	})
}
