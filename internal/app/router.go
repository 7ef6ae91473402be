package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewbase/crewbase/internal/rbac"
	"github.com/crewbase/crewbase/internal/roles"
	"github.com/crewbase/crewbase/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger       *slog.Logger
	Config       *Config
	Guards       *rbac.Middleware
	RolesHandler *roles.Handler
	RBACHandler  rbac.Handler
	JobsHandler  *jobs.Handler
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(p RouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: p.Logger, Config: p.Config}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		if p.RolesHandler != nil {
			api.Route("/roles", p.RolesHandler.Routes)
		}
		api.Route("/permissions", p.RBACHandler.Routes)
		if p.JobsHandler != nil {
			api.Route("/jobs", func(j chi.Router) {
				if p.Guards != nil {
					j.Use(p.Guards.RequireLevel(rbac.MinLevelForRole(rbac.RoleAdmin)))
				}
				p.JobsHandler.MountRoutes(j)
			})
		}
	})

	return r
}
