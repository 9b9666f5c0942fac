package team

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/transport"
	"github.com/frahmantamala/deptdesk/internal/user"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetOrCreateTeam(ctx context.Context, hrUserID int64) (*Team, error)
	AddMember(ctx context.Context, hrUserID, targetUserID int64, dept department.Department) (*Team, error)
	RemoveMember(ctx context.Context, hrUserID, targetUserID int64, dept department.Department) (*Team, error)
	FindTeamForMember(ctx context.Context, userID int64) (*user.User, error)
	ListUnassigned(ctx context.Context, dept department.Department) ([]*user.User, error)
	View(ctx context.Context, t *Team) (*View, error)
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

// MyTeam handles GET /teams/my-team
func (h *Handler) MyTeam(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	t, err := h.Service.GetOrCreateTeam(r.Context(), caller.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeView(w, r, http.StatusOK, "", t)
}

// AddMember handles POST /teams/add-member
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	var dto AddMemberDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	t, err := h.Service.AddMember(r.Context(), caller.ID, dto.UserID, department.Department(dto.Department))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeView(w, r, http.StatusOK, "Team member added successfully", t)
}

// RemoveMember handles DELETE /teams/remove-member/{userId}?department=
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	userID, err := h.ParseIDParam(r, "userId")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dept department.Department
	if raw := strings.TrimSpace(r.URL.Query().Get("department")); raw != "" {
		parsed, ok := department.Parse(raw)
		if !ok {
			h.HandleServiceError(w, internal.NewValidationError("Invalid department", internal.ErrCodeInvalidDepartment))
			return
		}
		dept = parsed
	}

	t, err := h.Service.RemoveMember(r.Context(), caller.ID, userID, dept)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeView(w, r, http.StatusOK, "Team member removed successfully", t)
}

// MyHR handles GET /teams/my-hr
func (h *Handler) MyHR(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	owner, err := h.Service.FindTeamForMember(r.Context(), caller.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if owner == nil {
		h.WriteJSON(w, http.StatusOK, AssignedHRResponse{Message: "You are not assigned to any HR team yet"})
		return
	}
	summary := owner.Summary()
	h.WriteJSON(w, http.StatusOK, AssignedHRResponse{AssignedHR: &summary})
}

// Unassigned handles GET /teams/unassigned/{department}
func (h *Handler) Unassigned(w http.ResponseWriter, r *http.Request) {
	dept, ok := department.Parse(chi.URLParam(r, "department"))
	if !ok {
		h.HandleServiceError(w, internal.NewValidationError("Invalid department", internal.ErrCodeInvalidDepartment))
		return
	}
	h.listUnassigned(w, r, dept)
}

// UnassignedTech handles GET /teams/unassigned-tech
func (h *Handler) UnassignedTech(w http.ResponseWriter, r *http.Request) {
	h.listUnassigned(w, r, department.Tech)
}

func (h *Handler) listUnassigned(w http.ResponseWriter, r *http.Request, dept department.Department) {
	users, err := h.Service.ListUnassigned(r.Context(), dept)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, user.Summaries(users))
}

func (h *Handler) writeView(w http.ResponseWriter, r *http.Request, status int, message string, t *Team) {
	view, err := h.Service.View(r.Context(), t)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if message == "" {
		h.WriteJSON(w, status, view)
		return
	}
	h.WriteJSON(w, status, MemberChangeResponse{Message: message, Team: view})
}
