package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewbase/crewbase/internal/platform/httpx"
	"github.com/crewbase/crewbase/internal/rbac"
	"github.com/crewbase/crewbase/internal/shared"
	"github.com/crewbase/crewbase/internal/validation"
)

// Handler exposes the role operations as JSON endpoints under /api/roles.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    *rbac.Middleware
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, service *Service, rbac *rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// Routes mounts the role endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.With(h.rbac.RequireAny(rbac.PermRoleRead)).Get("/", h.List)
	r.With(h.rbac.RequireAny(rbac.PermRoleRead)).Get("/{roleID}", h.Get)
	r.With(h.rbac.RequireAny(rbac.PermRoleCreate)).Post("/", h.Create)
	r.With(h.rbac.RequireAny(rbac.PermRoleUpdate)).Patch("/{roleID}", h.Update)
	r.With(h.rbac.RequireAll(rbac.PermRoleUpdate, rbac.PermRoleAssign)).Put("/{roleID}/parent", h.Reparent)
	r.With(h.rbac.RequireAny(rbac.PermRoleAssign)).Post("/{roleID}/assignments", h.Assign)
	r.With(h.rbac.RequireAny(rbac.PermRoleHardDelete)).Delete("/{roleID}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	roles, err := h.service.List(r.Context(), actor, tenantOf(actor))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": roles})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	role, err := h.service.Get(r.Context(), actor, tenantOf(actor), chi.URLParam(r, "roleID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor := shared.ActorFromContext(r.Context())
	res, role, err := h.service.Create(r.Context(), actor, tenantOf(actor), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Valid {
		respondInvalid(w, res)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"role": role, "validation": res})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	req.RoleID = chi.URLParam(r, "roleID")
	actor := shared.ActorFromContext(r.Context())
	res, role, err := h.service.Update(r.Context(), actor, tenantOf(actor), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Valid {
		respondInvalid(w, res)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"role": role, "validation": res})
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	req.RoleID = chi.URLParam(r, "roleID")
	actor := shared.ActorFromContext(r.Context())
	res, assignment, err := h.service.Assign(r.Context(), actor, tenantOf(actor), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Valid {
		respondInvalid(w, res)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"assignment": assignment, "validation": res})
}

func (h *Handler) Reparent(w http.ResponseWriter, r *http.Request) {
	var req ReparentRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	req.RoleID = chi.URLParam(r, "roleID")
	actor := shared.ActorFromContext(r.Context())
	res, err := h.service.Reparent(r.Context(), actor, tenantOf(actor), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Valid {
		respondInvalid(w, res)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"validation": res})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	req := DeleteRoleRequest{
		RoleID: chi.URLParam(r, "roleID"),
		Force:  r.URL.Query().Get("force") == "true",
	}
	actor := shared.ActorFromContext(r.Context())
	res, err := h.service.Delete(r.Context(), actor, tenantOf(actor), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !res.Valid {
		respondInvalid(w, res)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"validation": res})
}

func tenantOf(actor *shared.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.TenantID
}

func respondInvalid(w http.ResponseWriter, res validation.Result) {
	httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{"validation": res})
}
