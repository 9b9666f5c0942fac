package routing

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/issue"
	"github.com/frahmantamala/deptdesk/internal/transport"
	"github.com/frahmantamala/deptdesk/pkg/logger"
)

type ServiceAPI interface {
	RouteIssue(ctx context.Context, actor *internal.User, issueID int64, dto RouteDTO) (*issue.Issue, error)
	AutoRoute(ctx context.Context) (*AutoRouteReport, error)
	Suggestions(ctx context.Context) ([]Suggestion, error)
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

// AutoRoute handles POST /issues/auto-route
func (h *Handler) AutoRoute(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.AutoRoute(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, report)
}

// RouteToDepartment handles PUT /issues/{id}/route-to-department
func (h *Handler) RouteToDepartment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto RouteDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	routed, err := h.Service.RouteIssue(r.Context(), caller, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RouteResponse{
		Message: fmt.Sprintf("Issue successfully routed to %s", *routed.RoutedToDepartment),
		Issue:   routed,
	})
}

// Suggestions handles GET /issues/routing-suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.Service.Suggestions(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, suggestions)
}
