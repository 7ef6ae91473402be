package roles

import (
	"context"

	"github.com/crewbase/crewbase/internal/validation"
)

// Store is the read surface the role validators need, on top of the generic
// validation primitives.
type Store interface {
	validation.Store
	// RoleByID fetches a role within the tenant. Returns shared.ErrNotFound
	// when absent.
	RoleByID(ctx context.Context, tenantID, roleID string) (Role, error)
	// ParentRoleID resolves the immediate parent of a role; ok is false when
	// the role has no parent or does not exist.
	ParentRoleID(ctx context.Context, tenantID, roleID string) (parentID string, ok bool, err error)
	// RoleCount returns the number of roles in the tenant; it bounds the
	// hierarchy cycle walk.
	RoleCount(ctx context.Context, tenantID string) (int64, error)
	// ActiveAssignmentCount counts unexpired assignments of a role.
	ActiveAssignmentCount(ctx context.Context, tenantID, roleID string) (int64, error)
	// ChildRoleCount counts roles inheriting from the given role.
	ChildRoleCount(ctx context.Context, tenantID, roleID string) (int64, error)
}

// RepositoryPort adds the write surface the service uses after validation.
type RepositoryPort interface {
	Store
	ListRoles(ctx context.Context, tenantID string) ([]Role, error)
	InsertRole(ctx context.Context, role Role) (Role, error)
	UpdateRole(ctx context.Context, tenantID string, req UpdateRoleRequest) (Role, error)
	ReplaceRolePermissions(ctx context.Context, tenantID, roleCode string, permissionIDs []string) error
	InsertAssignment(ctx context.Context, assignment RoleAssignment) (RoleAssignment, error)
	SetParent(ctx context.Context, tenantID, roleID, parentID string) error
	DeleteRole(ctx context.Context, tenantID, roleID string) error
}
