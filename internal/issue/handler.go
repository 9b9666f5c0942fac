package issue

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
	Create(ctx context.Context, actor *internal.User, dto CreateIssueDTO) (*Issue, error)
	GetByID(ctx context.Context, id int64) (*Issue, error)
	List(ctx context.Context, limit, offset int) ([]*Issue, error)
	ListByReporter(ctx context.Context, reporter string) ([]*Issue, error)
	ListForDepartment(ctx context.Context, actor *internal.User, dept department.Department) ([]*Issue, error)
	Update(ctx context.Context, actor *internal.User, id int64, dto UpdateIssueDTO) (*Issue, error)
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

// List handles GET /issues
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := h.ParsePage(r)
	issues, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, issues)
}

// Create handles POST /issues
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	var dto CreateIssueDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	i, err := h.Service.Create(r.Context(), caller, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, i)
}

// Get handles GET /issues/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	i, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// Update handles PUT /issues/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateIssueDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	i, err := h.Service.Update(r.Context(), caller, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// ListByReporter handles GET /issues/user/{username}
func (h *Handler) ListByReporter(w http.ResponseWriter, r *http.Request) {
	issues, err := h.Service.ListByReporter(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, issues)
}

// ListForDepartment handles GET /issues/department/{department}
func (h *Handler) ListForDepartment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	dept, ok := department.Parse(chi.URLParam(r, "department"))
	if !ok {
		h.HandleServiceError(w, internal.NewValidationError("Invalid department", internal.ErrCodeInvalidDepartment))
		return
	}

	issues, err := h.Service.ListForDepartment(r.Context(), caller, dept)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, issues)
}
