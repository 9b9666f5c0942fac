package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/analytics"
	"github.com/frahmantamala/deptdesk/internal/auth"
	"github.com/frahmantamala/deptdesk/internal/category"
	"github.com/frahmantamala/deptdesk/internal/expense"
	"github.com/frahmantamala/deptdesk/internal/issue"
	"github.com/frahmantamala/deptdesk/internal/routing"
	"github.com/frahmantamala/deptdesk/internal/team"
	"github.com/frahmantamala/deptdesk/internal/transport/middleware"
	"github.com/frahmantamala/deptdesk/internal/transport/swagger"
	"github.com/frahmantamala/deptdesk/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth       *auth.Handler
	Users      *user.Handler
	Teams      *team.Handler
	Issues     *issue.Handler
	Routing    *routing.Handler
	Expenses   *expense.Handler
	Categories *category.Handler
	Analytics  *analytics.Handler
	Health     *HealthHandler
}

type Options struct {
	AllowedOrigins string
	// OpenAPISpec is served at /openapi.yml when set.
	OpenAPISpec []byte
}

func NewRouter(h Handlers, opts Options, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	RegisterAllRoutes(router, h, opts, logger)
	return router
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	authz := auth.NewDepartmentAuthorization(logger)

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	if len(opts.OpenAPISpec) > 0 {
		swagger.Mount(router, opts.OpenAPISpec)
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		r.Post("/auth/signup", h.Auth.Signup)
		r.Post("/auth/signin", h.Auth.Signin)

		r.Get("/categories", h.Categories.GetCategories)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/signout", h.Auth.Signout)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.Users.GetCurrentUser)
				ur.With(authz.RequireHR("change user departments")).Post("/{id}/change-department", h.Users.ChangeDepartment)
				ur.Group(func(hr chi.Router) {
					hr.Use(authz.RequireHR("view department users"))
					hr.Get("/department/{department}", h.Users.ListByDepartment)
					hr.Get("/tech-users", h.Users.ListTechUsers)
				})
			})

			pr.Route("/teams", func(tr chi.Router) {
				tr.With(authz.RequireTeamMemberDepartment()).Get("/my-hr", h.Teams.MyHR)
				tr.Group(func(hr chi.Router) {
					hr.Use(authz.RequireHR("access team management"))
					hr.Get("/my-team", h.Teams.MyTeam)
					hr.Post("/add-member", h.Teams.AddMember)
					hr.Delete("/remove-member/{userId}", h.Teams.RemoveMember)
					hr.Get("/unassigned/{department}", h.Teams.Unassigned)
					hr.Get("/unassigned-tech", h.Teams.UnassignedTech)
				})
			})

			pr.Route("/issues", func(ir chi.Router) {
				ir.Get("/", h.Issues.List)
				ir.Post("/", h.Issues.Create)
				ir.Get("/user/{username}", h.Issues.ListByReporter)
				ir.Get("/department/{department}", h.Issues.ListForDepartment)

				ir.With(authz.RequireHR("auto-route issues")).Post("/auto-route", h.Routing.AutoRoute)
				ir.With(authz.RequireHR("access routing suggestions")).Get("/routing-suggestions", h.Routing.Suggestions)
				ir.With(authz.RequireHR("manually route issues")).Post("/{id}/route-to-department", h.Routing.RouteToDepartment)

				ir.Get("/{id}", h.Issues.Get)
				ir.Put("/{id}", h.Issues.Update)
			})

			pr.Route("/expenses", func(er chi.Router) {
				er.Get("/", h.Expenses.List)
				er.Post("/", h.Expenses.Create)
				er.Get("/user/{userId}", h.Expenses.ListByUser)
				er.Get("/{id}", h.Expenses.Get)
				er.With(authz.RequireHR("approve expenses")).Put("/{id}/approve", h.Expenses.Approve)
			})

			pr.Get("/analytics/summary", h.Analytics.Summary)
		})
	})
}

type routeNotFound struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, routeNotFound{
		Error:  "Route not found",
		Path:   r.URL.RequestURI(),
		Method: r.Method,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, internal.ErrorResponse{Error: "Method not allowed"})
}
