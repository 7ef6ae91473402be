// Package roles implements the tenant-scoped role domain: the role and
// assignment records, their validators, and the service that enforces
// escalation rules before any write.
package roles

import (
	"regexp"
	"strings"
	"time"
)

// RoleType distinguishes platform-seeded, tenant-created and inheriting roles.
type RoleType string

const (
	RoleTypeSystem    RoleType = "SYSTEM"
	RoleTypeCustom    RoleType = "CUSTOM"
	RoleTypeInherited RoleType = "INHERITED"
)

// SystemTenantID is the platform tenant that owns global SYSTEM roles.
const SystemTenantID = "00000000-0000-0000-0000-000000000000"

// Role is a named bundle of permissions with a hierarchy level, assignable
// to members within a tenant. SYSTEM roles are global; everything else is
// unique per tenant.
type Role struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         RoleType  `json:"type"`
	Priority     int       `json:"priority"`
	ParentRoleID *string   `json:"parent_role_id,omitempty"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleAssignment ties a role to a member, optionally until an expiry.
type RoleAssignment struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenant_id"`
	RoleID     string     `json:"role_id"`
	MemberID   string     `json:"member_id"`
	AssignedBy string     `json:"assigned_by"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

var roleCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

var reservedRoleCodes = map[string]struct{}{
	"SYSTEM":    {},
	"ROOT":      {},
	"SUPER":     {},
	"GOD":       {},
	"NULL":      {},
	"UNDEFINED": {},
}

// ValidRoleCode reports whether code is an acceptable role code: uppercase,
// at least two characters, and not a reserved word.
func ValidRoleCode(code string) bool {
	if len(code) < 2 {
		return false
	}
	if !roleCodePattern.MatchString(code) {
		return false
	}
	_, reserved := reservedRoleCodes[code]
	return !reserved
}

// ReservedRoleCode reports whether code is reserved for platform use.
func ReservedRoleCode(code string) bool {
	_, reserved := reservedRoleCodes[strings.ToUpper(code)]
	return reserved
}

// Entity type names used in validation contexts and store lookups.
const (
	EntityRole       = "role"
	EntityMember     = "member"
	EntityPermission = "permission"
)
