package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/crewbase/crewbase/internal/authz"
	"github.com/crewbase/crewbase/internal/platform/httpx"
	"github.com/crewbase/crewbase/internal/shared"
)

// PermissionSource resolves the effective permissions of a member.
// *Service implements it; tests substitute fakes.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, tenantID, memberID string) ([]string, error)
}

// Middleware wires catalog-backed authorization guards for HTTP handlers.
type Middleware struct {
	Source  PermissionSource
	Catalog *authz.Catalog
	Logger  *slog.Logger
}

// NewMiddleware builds the middleware over the compiled catalog.
func NewMiddleware(source PermissionSource, logger *slog.Logger) *Middleware {
	return &Middleware{Source: source, Catalog: LoadCatalog(), Logger: logger}
}

// RequireAny admits the request when the actor holds at least one of the
// required permissions.
func (m *Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return m.require(perms, authz.HasAnyPermission)
}

// RequireAll admits the request only when the actor holds every required
// permission.
func (m *Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.require(perms, authz.HasAllPermissions)
}

// RequireLevel admits the request when the actor's highest role reaches the
// given hierarchy level. One parameterized guard serves every threshold.
func (m *Middleware) RequireLevel(minLevel int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := shared.ActorFromContext(r.Context())
			if actor == nil {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "no actor in context")
				return
			}
			if m.Catalog.MaxLevel(actor.Roles) < minLevel {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role level")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) require(perms []string, check func(held []string, required ...string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			actor := shared.ActorFromContext(r.Context())
			if actor == nil {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "no actor in context")
				return
			}
			held := actor.Permissions
			if len(held) == 0 && m.Source != nil {
				var err error
				held, err = m.Source.EffectivePermissions(r.Context(), actor.TenantID, actor.ID)
				if err != nil {
					if m.Logger != nil {
						m.Logger.Error("resolve permissions", slog.Any("error", err))
					}
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
					return
				}
			}
			if check(held, perms...) {
				next.ServeHTTP(w, r)
				return
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing required permission")
		})
	}
}
