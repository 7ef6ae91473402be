// Package authz answers authorization questions against a loaded role
// catalog and a caller's role/permission set. Every check is a pure decision
// function over caller-supplied inputs.
package authz

import (
	"errors"
	"strings"
)

// Decision is the structured outcome of a business-rule check. Expected
// violations are reported through Decision, never through errors.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a passing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a failing decision with a human-readable reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// ErrNoRolesProvided indicates a caller violated the at-least-one-role
// contract of an escalation check.
var ErrNoRolesProvided = errors.New("authz: at least one role is required")

// HasPermission reports whether the held set contains the required permission.
func HasPermission(held []string, required string) bool {
	return HasAnyPermission(held, required)
}

// HasAnyPermission reports whether at least one required permission is held.
// It returns false, never panics, when the caller holds nothing.
func HasAnyPermission(held []string, required ...string) bool {
	if len(held) == 0 || len(required) == 0 {
		return false
	}
	set := lowerSet(held)
	for _, r := range required {
		if _, ok := set[strings.ToLower(strings.TrimSpace(r))]; ok {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every required permission is held.
func HasAllPermissions(held []string, required ...string) bool {
	if len(held) == 0 || len(required) == 0 {
		return false
	}
	set := lowerSet(held)
	for _, r := range required {
		if _, ok := set[strings.ToLower(strings.TrimSpace(r))]; !ok {
			return false
		}
	}
	return true
}

// HasRole reports whether the held set contains the required role code.
func HasRole(held []string, required string) bool {
	return HasAnyRole(held, required)
}

// HasAnyRole reports whether at least one required role is held.
func HasAnyRole(held []string, required ...string) bool {
	if len(held) == 0 || len(required) == 0 {
		return false
	}
	set := roleSet(held)
	for _, r := range required {
		if _, ok := set[normalizeRole(r)]; ok {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether every required role is held.
func HasAllRoles(held []string, required ...string) bool {
	if len(held) == 0 || len(required) == 0 {
		return false
	}
	set := roleSet(held)
	for _, r := range required {
		if _, ok := set[normalizeRole(r)]; !ok {
			return false
		}
	}
	return true
}

// Engine evaluates hierarchy-aware checks against a loaded catalog.
type Engine struct {
	catalog     *Catalog
	topTier     string
	managerTier string
	// restricted lists roles a manager-tier performer may never grant,
	// regardless of numeric levels.
	restricted []string
}

// NewEngine constructs an engine over the given catalog with the platform
// tier conventions: ADMIN is top tier, PROJECT_MANAGER is manager tier.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{
		catalog:     catalog,
		topTier:     "ADMIN",
		managerTier: "PROJECT_MANAGER",
		restricted:  []string{"ADMIN", "PROJECT_MANAGER"},
	}
}

// ValidateRoleEscalation decides whether a performer may grant the target
// roles. The numeric rule compares maximum hierarchy levels; the top tier
// bypasses every check; the manager tier additionally may not grant admin or
// manager roles even when levels would allow it.
func (e *Engine) ValidateRoleEscalation(performerRoles, targetRoles []string) (Decision, error) {
	if len(performerRoles) == 0 || len(targetRoles) == 0 {
		return Decision{}, ErrNoRolesProvided
	}
	if HasRole(performerRoles, e.topTier) {
		return Allow(), nil
	}
	performerMax := e.catalog.MaxLevel(performerRoles)
	targetMax := e.catalog.MaxLevel(targetRoles)
	if targetMax > performerMax {
		return Deny("cannot assign roles with higher privileges than your own"), nil
	}
	if HasRole(performerRoles, e.managerTier) {
		for _, forbidden := range e.restricted {
			if HasAnyRole(targetRoles, forbidden) {
				return Deny("managers may not grant admin or manager roles"), nil
			}
		}
	}
	return Allow(), nil
}

// ValidateTenantContext rejects any operation that is missing a tenant id or
// crosses tenant boundaries, regardless of role.
func ValidateTenantContext(performerTenantID, targetTenantID string) Decision {
	if strings.TrimSpace(performerTenantID) == "" || strings.TrimSpace(targetTenantID) == "" {
		return Deny("tenant id is required on both sides of the operation")
	}
	if performerTenantID != targetTenantID {
		return Deny("no cross-tenant operations")
	}
	return Allow()
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

func roleSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[normalizeRole(v)] = struct{}{}
	}
	return set
}

func normalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}
