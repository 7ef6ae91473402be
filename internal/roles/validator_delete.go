package roles

import (
	"context"
	"fmt"

	"github.com/crewbase/crewbase/internal/validation"
)

// DeleteValidator runs the semantic checks behind role deletion.
type DeleteValidator struct {
	store Store
	req   DeleteRoleRequest
}

// NewDeleteValidator builds the validator for one deletion request.
func NewDeleteValidator(store Store, req DeleteRoleRequest) *DeleteValidator {
	return &DeleteValidator{store: store, req: req}
}

func (v *DeleteValidator) EntityKind() string { return EntityRole }

func (v *DeleteValidator) Subject() any { return v.req }

// ValidateSemantics blocks deletion while active assignments exist unless
// forced, and warns about inheritance impact and forced deletions.
func (v *DeleteValidator) ValidateSemantics(ctx context.Context, vctx validation.Context) (validation.Result, error) {
	var results []validation.Result
	var issues []validation.Issue

	owned, err := validation.CheckTenantOwnership(ctx, v.store, vctx, EntityRole, v.req.RoleID, vctx.TenantID)
	if err != nil {
		return validation.Result{}, err
	}
	results = append(results, owned)

	active, err := v.store.ActiveAssignmentCount(ctx, vctx.TenantID, v.req.RoleID)
	if err != nil {
		return validation.Result{}, err
	}
	if active > 0 && !v.req.Force {
		issue := validation.Error("role_id", CodeActiveAssignments,
			fmt.Sprintf("role has %d active assignments", active))
		issue.Suggestion = "remove the assignments first, or set force to delete anyway"
		issues = append(issues, issue)
	}

	children, err := v.store.ChildRoleCount(ctx, vctx.TenantID, v.req.RoleID)
	if err != nil {
		return validation.Result{}, err
	}
	if children > 0 {
		issues = append(issues, validation.Warning("role_id", CodeInheritedRoles,
			fmt.Sprintf("%d roles inherit from this role and will lose their inheritance", children)))
	}

	if v.req.Force {
		warn := validation.Warning("force", CodeForceDeletion,
			"forced deletion bypasses assignment checks")
		warn.Meta = map[string]any{"audit_required": true}
		issues = append(issues, warn)
	}

	results = append(results, validation.Collect(issues))
	return validation.Combine(results...), nil
}
