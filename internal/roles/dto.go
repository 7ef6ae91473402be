package roles

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/crewbase/crewbase/internal/validation"
)

// CreateRoleRequest is the raw input for role creation.
type CreateRoleRequest struct {
	Code          string   `json:"code" validate:"required,role_code"`
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	Description   string   `json:"description" validate:"max=500"`
	Type          RoleType `json:"type" validate:"required,oneof=SYSTEM CUSTOM INHERITED"`
	Priority      int      `json:"priority" validate:"gte=0,lte=1000"`
	ParentRoleID  *string  `json:"parent_role_id" validate:"omitempty,uuid4"`
	PermissionIDs []string `json:"permission_ids" validate:"dive,uuid4"`
	IsDefault     bool     `json:"is_default"`
}

// UpdateRoleRequest is the raw input for role updates; nil fields are
// untouched.
type UpdateRoleRequest struct {
	RoleID      string  `json:"role_id" validate:"required,uuid4"`
	Code        *string `json:"code" validate:"omitempty,role_code"`
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Priority    *int    `json:"priority" validate:"omitempty,gte=0,lte=1000"`
}

// AssignRoleRequest is the raw input for assigning a role to a member.
type AssignRoleRequest struct {
	RoleID     string     `json:"role_id" validate:"required,uuid4"`
	MemberID   string     `json:"member_id" validate:"required,uuid4"`
	AssignedBy string     `json:"assigned_by" validate:"required,uuid4"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// ReparentRoleRequest is the raw input for changing a role's parent.
type ReparentRoleRequest struct {
	RoleID       string `json:"role_id" validate:"required,uuid4"`
	ParentRoleID string `json:"parent_role_id" validate:"required,uuid4"`
}

// DeleteRoleRequest is the raw input for role deletion.
type DeleteRoleRequest struct {
	RoleID string `json:"role_id" validate:"required,uuid4"`
	Force  bool   `json:"force"`
}

// RegisterRules installs the role-specific structural rules on a runner.
func RegisterRules(runner *validation.Runner) error {
	return runner.RegisterRule("role_code", func(fl validator.FieldLevel) bool {
		return ValidRoleCode(fl.Field().String())
	})
}
