package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewbase/crewbase/internal/platform/httpx"
)

// Handler exposes the compiled catalog for introspection.
type Handler struct{}

// Routes mounts the read-only catalog endpoints.
func (h Handler) Routes(r chi.Router) {
	r.Get("/", h.ListPermissions)
	r.Get("/roles", h.ListRoles)
}

// ListPermissions returns the full permission catalog.
func (h Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": PermissionCatalog})
}

type roleView struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Level       int      `json:"level"`
	Permissions []string `json:"permissions"`
}

// ListRoles returns the compiled roles with their grants and levels.
func (h Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	views := make([]roleView, 0, len(RoleNames))
	for _, code := range []string{RoleAdmin, RoleProjectManager, RoleWorker, RoleViewer, RoleDriver} {
		views = append(views, roleView{
			Code:        code,
			Name:        RoleNames[code],
			Description: RoleDescriptions[code],
			Level:       RoleHierarchy[code],
			Permissions: PermissionsForRole(code),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": views})
}
