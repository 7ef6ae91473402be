package rbac

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Service resolves the effective permission set of a member: the union of
// the compiled grants of their roles plus any tenant-defined grants stored
// in role_permissions.
type Service struct {
	pool  *pgxpool.Pool
	cache *Cache
}

// NewService constructs a Service backed by the provided pool and cache.
func NewService(pool *pgxpool.Pool, cache *Cache) *Service {
	return &Service{pool: pool, cache: cache}
}

// EffectivePermissions returns every permission code the member currently
// holds within the tenant. Results are cached until the next Bump.
func (s *Service) EffectivePermissions(ctx context.Context, tenantID, memberID string) ([]string, error) {
	key, err := s.cache.Key(ctx, tenantID, memberID)
	if err != nil {
		return nil, err
	}
	return s.cache.FetchPermissions(ctx, key, func(ctx context.Context) ([]string, error) {
		return s.loadPermissions(ctx, tenantID, memberID)
	})
}

// Invalidate drops every cached permission set. Call after any role or
// assignment write.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) loadPermissions(ctx context.Context, tenantID, memberID string) ([]string, error) {
	codes, err := s.memberRoleCodes(ctx, tenantID, memberID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var perms []string
	add := func(code string) {
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		perms = append(perms, code)
	}

	var custom []string
	for _, code := range codes {
		if code == RoleAdmin {
			return AllPermissions(), nil
		}
		if KnownRole(code) {
			for _, p := range PermissionsForRole(code) {
				add(p)
			}
			continue
		}
		custom = append(custom, code)
	}

	for _, code := range custom {
		granted, err := s.storedPermissions(ctx, tenantID, code)
		if err != nil {
			return nil, err
		}
		for _, p := range granted {
			add(p)
		}
	}
	return perms, nil
}

func (s *Service) memberRoleCodes(ctx context.Context, tenantID, memberID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.code
		 FROM role_assignments ra
		 JOIN roles r ON r.id = ra.role_id AND r.tenant_id = ra.tenant_id
		 WHERE ra.tenant_id = $1 AND ra.member_id = $2
		   AND (ra.expires_at IS NULL OR ra.expires_at > NOW())
		 ORDER BY r.priority DESC, r.code`, tenantID, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (s *Service) storedPermissions(ctx context.Context, tenantID, roleCode string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT permission_code FROM role_permissions WHERE tenant_id = $1 AND role_code = $2 ORDER BY permission_code`,
		tenantID, roleCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
