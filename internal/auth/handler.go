package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/transport"
	"github.com/frahmantamala/deptdesk/pkg/logger"
)

type ServiceAPI interface {
	Signup(ctx context.Context, dto SignupDTO) (*AuthResponse, error)
	Signin(ctx context.Context, dto SigninDTO) (*AuthResponse, error)
	Signout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*internal.User, error)
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

// Signup handles POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

// Signin handles POST /auth/signin
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var dto SigninDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Signin(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// Signout handles POST /auth/signout
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	if err := h.Service.Signout(r.Context(), token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)

		caller, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.Logger.Debug("auth middleware: request rejected", "error", err, "path", r.URL.Path)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithUser(r.Context(), caller)
		ctx = logger.With(ctx, "user_id", caller.ID, "department", caller.Department)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
