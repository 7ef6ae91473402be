package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewbase/crewbase/internal/platform/db"
	"github.com/crewbase/crewbase/internal/shared"
	"github.com/crewbase/crewbase/internal/validation"
)

// Repository provides PostgreSQL backed persistence for roles and
// assignments, and implements the tenant scope the validation runtime
// acquires before any semantic check.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type scopedConnKey struct{}

// Acquire pins a pooled connection and binds it to the tenant and actor via
// session GUCs, so row-level security policies see the caller's identity.
// The returned release resets the session and returns the connection.
func (r *Repository) Acquire(ctx context.Context, vctx validation.Context) (context.Context, func(), error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("roles: acquire tenant scope: %w", err)
	}
	if _, err := conn.Exec(ctx,
		`SELECT set_config('app.current_tenant_id', $1, false), set_config('app.current_actor_id', $2, false)`,
		vctx.TenantID, vctx.ActorID); err != nil {
		conn.Release()
		return nil, nil, fmt.Errorf("roles: bind tenant scope: %w", err)
	}
	release := func() {
		_, _ = conn.Exec(context.Background(),
			`SELECT set_config('app.current_tenant_id', '', false), set_config('app.current_actor_id', '', false)`)
		conn.Release()
	}
	return context.WithValue(ctx, scopedConnKey{}, conn), release, nil
}

// querier returns the tenant-scoped connection when one is bound to the
// context, falling back to the pool.
func (r *Repository) querier(ctx context.Context) querier {
	if conn, ok := ctx.Value(scopedConnKey{}).(*pgxpool.Conn); ok {
		return conn
	}
	return r.pool
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// entityTables maps logical entity types to their tables. Lookups outside
// this map are programmer errors.
var entityTables = map[string]string{
	EntityRole:       "roles",
	EntityMember:     "members",
	EntityPermission: "permissions",
}

func tableFor(entityType string) (string, error) {
	table, ok := entityTables[entityType]
	if !ok {
		return "", fmt.Errorf("roles: unknown entity type %q", entityType)
	}
	return table, nil
}

// countFieldQuery builds the uniqueness probe. The exclude parameter is
// compared as text: an empty string means no exclusion, and the parameter
// must never carry a uuid cast, which the planner folds and rejects for ''.
func countFieldQuery(table, field string) string {
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE tenant_id = $1 AND %s = $2 AND ($3 = '' OR id::text <> $3)`, table, field)
}

// CountFieldValue counts tenant records holding value in field, optionally
// ignoring one record id. Field names come from validator code, never from
// user input, but are still allow-listed.
func (r *Repository) CountFieldValue(ctx context.Context, tenantID, entityType, field, value, excludeID string) (int64, error) {
	table, err := tableFor(entityType)
	if err != nil {
		return 0, err
	}
	switch field {
	case "code", "name":
	default:
		return 0, fmt.Errorf("roles: field %q is not countable", field)
	}
	query := countFieldQuery(table, field)
	var count int64
	if err := r.querier(ctx).QueryRow(ctx, query, tenantID, value, excludeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// EntityTenant resolves the owning tenant of an entity.
func (r *Repository) EntityTenant(ctx context.Context, entityType, entityID string) (string, bool, error) {
	table, err := tableFor(entityType)
	if err != nil {
		return "", false, err
	}
	query := fmt.Sprintf(`SELECT tenant_id FROM %s WHERE id = $1`, table)
	var tenantID string
	if err := r.querier(ctx).QueryRow(ctx, query, entityID).Scan(&tenantID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return tenantID, true, nil
}

// EntityExists reports whether the referenced entity exists. Permissions are
// global, everything else lives inside a tenant, so existence alone is the
// question here; ownership is a separate check.
func (r *Repository) EntityExists(ctx context.Context, entityType, entityID string) (bool, error) {
	table, err := tableFor(entityType)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	var exists bool
	if err := r.querier(ctx).QueryRow(ctx, query, entityID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const roleColumns = `id, tenant_id, code, name, description, role_type, priority, parent_role_id, is_default, created_at, updated_at`

// RoleByID fetches a role within the tenant.
func (r *Repository) RoleByID(ctx context.Context, tenantID, roleID string) (Role, error) {
	row := r.querier(ctx).QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE tenant_id = $1 AND id = $2`, tenantID, roleID)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// ListRoles returns all roles in the tenant ordered by priority, then code.
func (r *Repository) ListRoles(ctx context.Context, tenantID string) ([]Role, error) {
	rows, err := r.querier(ctx).Query(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE tenant_id = $1 ORDER BY priority DESC, code`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// ParentRoleID resolves the immediate parent of a role.
func (r *Repository) ParentRoleID(ctx context.Context, tenantID, roleID string) (string, bool, error) {
	var parent *string
	err := r.querier(ctx).QueryRow(ctx,
		`SELECT parent_role_id FROM roles WHERE tenant_id = $1 AND id = $2`, tenantID, roleID).Scan(&parent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	if parent == nil {
		return "", false, nil
	}
	return *parent, true, nil
}

// RoleCount returns the number of roles in the tenant.
func (r *Repository) RoleCount(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.querier(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM roles WHERE tenant_id = $1`, tenantID).Scan(&count)
	return count, err
}

// ActiveAssignmentCount counts unexpired assignments of a role.
func (r *Repository) ActiveAssignmentCount(ctx context.Context, tenantID, roleID string) (int64, error) {
	var count int64
	err := r.querier(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM role_assignments WHERE tenant_id = $1 AND role_id = $2 AND (expires_at IS NULL OR expires_at > NOW())`,
		tenantID, roleID).Scan(&count)
	return count, err
}

// ChildRoleCount counts roles inheriting from the given role.
func (r *Repository) ChildRoleCount(ctx context.Context, tenantID, roleID string) (int64, error) {
	var count int64
	err := r.querier(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM roles WHERE tenant_id = $1 AND parent_role_id = $2`, tenantID, roleID).Scan(&count)
	return count, err
}

// InsertRole persists a validated role.
func (r *Repository) InsertRole(ctx context.Context, role Role) (Role, error) {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	row := r.querier(ctx).QueryRow(ctx,
		`INSERT INTO roles (id, tenant_id, code, name, description, role_type, priority, parent_role_id, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+roleColumns,
		role.ID, role.TenantID, role.Code, role.Name, role.Description, role.Type, role.Priority, role.ParentRoleID, role.IsDefault)
	inserted, err := scanRole(row)
	if err != nil {
		return Role{}, mapWriteError(err)
	}
	return inserted, nil
}

// UpdateRole applies the non-nil fields of the request.
func (r *Repository) UpdateRole(ctx context.Context, tenantID string, req UpdateRoleRequest) (Role, error) {
	row := r.querier(ctx).QueryRow(ctx,
		`UPDATE roles SET
			code = COALESCE($3, code),
			name = COALESCE($4, name),
			description = COALESCE($5, description),
			priority = COALESCE($6, priority),
			updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2
		 RETURNING `+roleColumns,
		tenantID, req.RoleID, req.Code, req.Name, req.Description, req.Priority)
	updated, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, mapWriteError(err)
	}
	return updated, nil
}

// InsertAssignment persists a validated assignment.
func (r *Repository) InsertAssignment(ctx context.Context, assignment RoleAssignment) (RoleAssignment, error) {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	err := r.querier(ctx).QueryRow(ctx,
		`INSERT INTO role_assignments (id, tenant_id, role_id, member_id, assigned_by, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		assignment.ID, assignment.TenantID, assignment.RoleID, assignment.MemberID, assignment.AssignedBy, assignment.ExpiresAt).
		Scan(&assignment.CreatedAt)
	if err != nil {
		return RoleAssignment{}, mapWriteError(err)
	}
	return assignment, nil
}

// ReplaceRolePermissions rewrites the explicit grants of a role from a list
// of catalog permission ids.
func (r *Repository) ReplaceRolePermissions(ctx context.Context, tenantID, roleCode string, permissionIDs []string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM role_permissions WHERE tenant_id = $1 AND role_code = $2`, tenantID, roleCode); err != nil {
			return err
		}
		if len(permissionIDs) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO role_permissions (tenant_id, role_code, permission_code)
			 SELECT $1, $2, code FROM permissions WHERE id = ANY($3::uuid[])
			 ON CONFLICT (tenant_id, role_code, permission_code) DO NOTHING`,
			tenantID, roleCode, permissionIDs)
		return err
	})
}

// SetParent rewires a role under a new parent and marks it INHERITED.
func (r *Repository) SetParent(ctx context.Context, tenantID, roleID, parentID string) error {
	tag, err := r.querier(ctx).Exec(ctx,
		`UPDATE roles SET parent_role_id = $3, role_type = $4, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`,
		tenantID, roleID, parentID, RoleTypeInherited)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteRole removes a role and its assignments in one transaction.
func (r *Repository) DeleteRole(ctx context.Context, tenantID, roleID string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM role_assignments WHERE tenant_id = $1 AND role_id = $2`, tenantID, roleID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE tenant_id = $1 AND id = $2`, tenantID, roleID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// IntegrityStore queries used by the background integrity scan.

// TenantIDs lists tenants that have at least one role.
func (r *Repository) TenantIDs(ctx context.Context) ([]string, error) {
	rows, err := r.querier(ctx).Query(ctx, `SELECT DISTINCT tenant_id FROM roles ORDER BY tenant_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// OrphanedRolePermissions lists role-permission links whose permission no
// longer exists in the catalog.
func (r *Repository) OrphanedRolePermissions(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := r.querier(ctx).Query(ctx,
		`SELECT rp.role_code || ':' || rp.permission_code
		 FROM role_permissions rp
		 LEFT JOIN permissions p ON p.code = rp.permission_code
		 WHERE rp.tenant_id = $1 AND p.code IS NULL
		 ORDER BY 1`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// ExpiredActiveAssignments lists assignments past their expiry that were
// never cleaned up.
func (r *Repository) ExpiredActiveAssignments(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := r.querier(ctx).Query(ctx,
		`SELECT id::text FROM role_assignments WHERE tenant_id = $1 AND expires_at IS NOT NULL AND expires_at <= NOW() ORDER BY expires_at`,
		tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	var parent *string
	err := row.Scan(&role.ID, &role.TenantID, &role.Code, &role.Name, &role.Description,
		&role.Type, &role.Priority, &parent, &role.IsDefault, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return Role{}, err
	}
	role.ParentRoleID = parent
	return role, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
var _ validation.TenantScope = (*Repository)(nil)
