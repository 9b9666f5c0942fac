package analytics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/deptdesk/internal/transport"
	"github.com/frahmantamala/deptdesk/pkg/logger"
)

type ServiceAPI interface {
	Summary(ctx context.Context) (*Summary, error)
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

// Summary handles GET /analytics/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
