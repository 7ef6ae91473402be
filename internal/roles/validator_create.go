package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/crewbase/crewbase/internal/validation"
)

// lowPriorityThreshold flags roles that may be functionally crippled.
const lowPriorityThreshold = 10

// CreateValidator runs the semantic checks behind role creation.
type CreateValidator struct {
	store Store
	req   CreateRoleRequest
}

// NewCreateValidator builds the validator for one creation request.
func NewCreateValidator(store Store, req CreateRoleRequest) *CreateValidator {
	return &CreateValidator{store: store, req: req}
}

func (v *CreateValidator) EntityKind() string { return EntityRole }

func (v *CreateValidator) Subject() any { return v.req }

// ValidateSemantics checks uniqueness, type constraints, parent ownership
// and permission references. All applicable checks run; issues accumulate.
func (v *CreateValidator) ValidateSemantics(ctx context.Context, vctx validation.Context) (validation.Result, error) {
	var results []validation.Result
	var issues []validation.Issue

	codeUnique, err := validation.CheckUniqueness(ctx, v.store, vctx, EntityRole, "code", v.req.Code, "")
	if err != nil {
		return validation.Result{}, err
	}
	results = append(results, codeUnique)

	nameUnique, err := validation.CheckUniqueness(ctx, v.store, vctx, EntityRole, "name", v.req.Name, "")
	if err != nil {
		return validation.Result{}, err
	}
	results = append(results, nameUnique)

	switch v.req.Type {
	case RoleTypeSystem:
		if v.req.IsDefault && vctx.TenantID != SystemTenantID {
			issues = append(issues, validation.Error("is_default", CodeSystemRoleTenantRestricted,
				"SYSTEM roles may only be default in the system tenant"))
		}
		if v.req.ParentRoleID != nil {
			issues = append(issues, validation.Error("parent_role_id", CodeSystemRoleWithParent,
				"SYSTEM roles must not declare a parent"))
		}
	case RoleTypeInherited:
		if v.req.ParentRoleID == nil {
			issues = append(issues, validation.Error("parent_role_id", CodeInheritedMissingParent,
				"INHERITED roles must declare a parent role"))
		}
		if len(v.req.PermissionIDs) > 0 {
			warn := validation.Warning("permission_ids", CodeInheritedExplicitPermissions,
				"INHERITED roles should receive permissions from their parent")
			warn.Suggestion = "remove the explicit permissions or change the role type"
			issues = append(issues, warn)
		}
	}

	if v.req.ParentRoleID != nil {
		parentOwned, err := validation.CheckTenantOwnership(ctx, v.store, vctx, EntityRole, *v.req.ParentRoleID, vctx.TenantID)
		if err != nil {
			return validation.Result{}, err
		}
		results = append(results, parentOwned)
	}

	if len(v.req.PermissionIDs) > 0 {
		refs := make([]validation.EntityRef, len(v.req.PermissionIDs))
		for i, id := range v.req.PermissionIDs {
			refs[i] = validation.EntityRef{
				Type:  EntityPermission,
				ID:    id,
				Field: fmt.Sprintf("permission_ids[%d]", i),
			}
		}
		refsExist, err := validation.CheckEntityReferences(ctx, v.store, vctx, refs)
		if err != nil {
			return validation.Result{}, err
		}
		results = append(results, refsExist)
	}

	if v.req.Priority < lowPriorityThreshold {
		issues = append(issues, validation.Warning("priority", CodeLowPriority,
			fmt.Sprintf("priority %d is below %d; the role may be functionally crippled", v.req.Priority, lowPriorityThreshold)))
	}
	if strings.Contains(v.req.Code, "ADMIN") && v.req.Type != RoleTypeSystem {
		issues = append(issues, validation.Warning("code", CodeAdminCode,
			"role code suggests admin privileges but the role is not SYSTEM type"))
	}

	results = append(results, validation.Collect(issues))
	return validation.Combine(results...), nil
}
