package expense

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/transport"
	"github.com/frahmantamala/deptdesk/pkg/logger"
)

type ServiceAPI interface {
	Submit(ctx context.Context, actor *internal.User, dto CreateExpenseDTO) (*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, limit, offset int) ([]*Expense, error)
	ListByUser(ctx context.Context, userID int64) ([]*Expense, error)
	Review(ctx context.Context, actor *internal.User, id int64, dto ReviewExpenseDTO) (*Expense, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// List handles GET /expenses
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := h.ParsePage(r)
	expenses, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, expenses)
}

// Create handles POST /expenses
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	var dto CreateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.Submit(r.Context(), caller, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

// Get handles GET /expenses/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// ListByUser handles GET /expenses/user/{userId}
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := h.ParseIDParam(r, "userId")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	expenses, err := h.Service.ListByUser(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, expenses)
}

// Approve handles PUT /expenses/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ReviewExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.Review(r.Context(), caller, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}
