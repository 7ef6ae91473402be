package roles

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crewbase/crewbase/internal/authz"
	"github.com/crewbase/crewbase/internal/shared"
	"github.com/crewbase/crewbase/internal/validation"
)

// Invalidator drops derived permission caches after a role or assignment
// write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service runs the full write path for roles: tenant-context gate,
// two-phase validation inside a tenant scope, escalation checks on
// assignment, then the repository write and an audit record.
type Service struct {
	repo       RepositoryPort
	scope      validation.TenantScope
	runner     *validation.Runner
	engine     *authz.Engine
	audit      shared.AuditRecorder
	invalidate Invalidator
	logger     *slog.Logger
}

// NewService wires the role service. invalidate may be nil when no derived
// cache needs dropping.
func NewService(repo RepositoryPort, scope validation.TenantScope, runner *validation.Runner, engine *authz.Engine, audit shared.AuditRecorder, invalidate Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, scope: scope, runner: runner, engine: engine, audit: audit, invalidate: invalidate, logger: logger}
}

// guard rejects calls without an actor or across tenant boundaries before
// anything touches the store.
func (s *Service) guard(actor *shared.Actor, tenantID string) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor in context", shared.ErrForbidden)
	}
	if d := authz.ValidateTenantContext(actor.TenantID, tenantID); !d.Allowed {
		return fmt.Errorf("%w: %s", shared.ErrTenantMismatch, d.Reason)
	}
	return nil
}

// List returns all roles in the tenant.
func (s *Service) List(ctx context.Context, actor *shared.Actor, tenantID string) ([]Role, error) {
	if err := s.guard(actor, tenantID); err != nil {
		return nil, err
	}
	return s.repo.ListRoles(ctx, tenantID)
}

// Get returns a single role.
func (s *Service) Get(ctx context.Context, actor *shared.Actor, tenantID, roleID string) (*Role, error) {
	if err := s.guard(actor, tenantID); err != nil {
		return nil, err
	}
	role, err := s.repo.RoleByID(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Create validates and persists a new role.
func (s *Service) Create(ctx context.Context, actor *shared.Actor, tenantID string, req CreateRoleRequest) (validation.Result, *Role, error) {
	if err := s.guard(actor, tenantID); err != nil {
		return validation.Result{}, nil, err
	}
	vctx := validation.NewContext(tenantID, actor.ID, EntityRole)
	res := s.runner.ValidateScoped(ctx, s.scope, NewCreateValidator(s.repo, req), vctx)
	if !res.Valid {
		return res, nil, nil
	}
	role, err := s.repo.InsertRole(ctx, Role{
		TenantID:     tenantID,
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		Priority:     req.Priority,
		ParentRoleID: req.ParentRoleID,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		return res, nil, err
	}
	if len(req.PermissionIDs) > 0 {
		if err := s.repo.ReplaceRolePermissions(ctx, tenantID, role.Code, req.PermissionIDs); err != nil {
			return res, nil, err
		}
	}
	s.bumpCache(ctx)
	s.record(ctx, actor, "role.create", role.ID, vctx, map[string]any{"code": role.Code})
	return res, &role, nil
}

// Update validates and applies a partial role update.
func (s *Service) Update(ctx context.Context, actor *shared.Actor, tenantID string, req UpdateRoleRequest) (validation.Result, *Role, error) {
	if err := s.guard(actor, tenantID); err != nil {
		return validation.Result{}, nil, err
	}
	vctx := validation.NewContext(tenantID, actor.ID, EntityRole).WithEntity(req.RoleID)
	res := s.runner.ValidateScoped(ctx, s.scope, NewUpdateValidator(s.repo, req), vctx)
	if !res.Valid {
		return res, nil, nil
	}
	role, err := s.repo.UpdateRole(ctx, tenantID, req)
	if err != nil {
		return res, nil, err
	}
	s.bumpCache(ctx)
	s.record(ctx, actor, "role.update", role.ID, vctx, nil)
	return res, &role, nil
}

// Assign validates an assignment and enforces the escalation rules: the
// performer may not grant a role above their own tier, and managers may not
// grant admin or manager roles at all.
func (s *Service) Assign(ctx context.Context, actor *shared.Actor, tenantID string, req AssignRoleRequest) (validation.Result, *RoleAssignment, error) {
	if err := s.guard(actor, tenantID); err != nil {
		return validation.Result{}, nil, err
	}
	role, err := s.repo.RoleByID(ctx, tenantID, req.RoleID)
	if err == nil {
		decision, eerr := s.engine.ValidateRoleEscalation(actor.Roles, []string{role.Code})
		if eerr != nil {
			return validation.Result{}, nil, eerr
		}
		if !decision.Allowed {
			return validation.Result{}, nil, fmt.Errorf("%w: %s", shared.ErrForbidden, decision.Reason)
		}
	}
	// A missing role falls through to validation, which reports it as an
	// ownership issue rather than a bare 404.

	vctx := validation.NewContext(tenantID, actor.ID, "role_assignment")
	res := s.runner.ValidateScoped(ctx, s.scope, NewAssignValidator(s.repo, req), vctx)
	if !res.Valid {
		return res, nil, nil
	}
	assignment, err := s.repo.InsertAssignment(ctx, RoleAssignment{
		TenantID:   tenantID,
		RoleID:     req.RoleID,
		MemberID:   req.MemberID,
		AssignedBy: req.AssignedBy,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		return res, nil, err
	}
	s.bumpCache(ctx)
	s.record(ctx, actor, "role.assign", assignment.ID, vctx, map[string]any{
		"role_id":   req.RoleID,
		"member_id": req.MemberID,
	})
	return res, &assignment, nil
}

// Reparent validates and applies a hierarchy change.
func (s *Service) Reparent(ctx context.Context, actor *shared.Actor, tenantID string, req ReparentRoleRequest) (validation.Result, error) {
	if err := s.guard(actor, tenantID); err != nil {
		return validation.Result{}, err
	}
	vctx := validation.NewContext(tenantID, actor.ID, EntityRole).WithEntity(req.RoleID)
	res := s.runner.ValidateScoped(ctx, s.scope, NewHierarchyValidator(s.repo, req), vctx)
	if !res.Valid {
		return res, nil
	}
	if err := s.repo.SetParent(ctx, tenantID, req.RoleID, req.ParentRoleID); err != nil {
		return res, err
	}
	s.bumpCache(ctx)
	s.record(ctx, actor, "role.reparent", req.RoleID, vctx, map[string]any{"parent_role_id": req.ParentRoleID})
	return res, nil
}

// Delete validates and removes a role. Force deletions go through but are
// flagged for audit by the validator.
func (s *Service) Delete(ctx context.Context, actor *shared.Actor, tenantID string, req DeleteRoleRequest) (validation.Result, error) {
	if err := s.guard(actor, tenantID); err != nil {
		return validation.Result{}, err
	}
	vctx := validation.NewContext(tenantID, actor.ID, EntityRole).WithEntity(req.RoleID)
	res := s.runner.ValidateScoped(ctx, s.scope, NewDeleteValidator(s.repo, req), vctx)
	if !res.Valid {
		return res, nil
	}
	if err := s.repo.DeleteRole(ctx, tenantID, req.RoleID); err != nil {
		return res, err
	}
	s.bumpCache(ctx)
	s.record(ctx, actor, "role.delete", req.RoleID, vctx, map[string]any{"force": req.Force})
	return res, nil
}

// bumpCache drops cached effective-permission sets after a successful write.
// Failures are logged, not returned.
func (s *Service) bumpCache(ctx context.Context) {
	if s.invalidate == nil {
		return
	}
	if err := s.invalidate.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("permission cache invalidation failed", slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, actor *shared.Actor, action, entityID string, vctx validation.Context, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["correlation_id"] = vctx.CorrelationID
	err := s.audit.Record(ctx, shared.AuditRecord{
		TenantID: vctx.TenantID,
		ActorID:  actor.ID,
		Action:   action,
		Entity:   EntityRole,
		EntityID: entityID,
		Meta:     meta,
		At:       time.Now().UTC(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
