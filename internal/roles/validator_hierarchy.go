package roles

import (
	"context"

	"github.com/crewbase/crewbase/internal/validation"
)

// HierarchyValidator runs the semantic checks behind reparenting a role.
type HierarchyValidator struct {
	store Store
	req   ReparentRoleRequest
}

// NewHierarchyValidator builds the validator for one reparent request.
func NewHierarchyValidator(store Store, req ReparentRoleRequest) *HierarchyValidator {
	return &HierarchyValidator{store: store, req: req}
}

func (v *HierarchyValidator) EntityKind() string { return EntityRole }

func (v *HierarchyValidator) Subject() any { return v.req }

// ValidateSemantics rejects self-parenting and any cycle in the proposed
// ancestry, and requires tenant ownership of both roles. The cycle walk is
// bounded by the tenant's total role count.
func (v *HierarchyValidator) ValidateSemantics(ctx context.Context, vctx validation.Context) (validation.Result, error) {
	var results []validation.Result
	var issues []validation.Issue

	if v.req.RoleID == v.req.ParentRoleID {
		issues = append(issues, validation.Error("parent_role_id", CodeSelfParent,
			"a role cannot be its own parent"))
		results = append(results, validation.Collect(issues))
		return validation.Combine(results...), nil
	}

	for _, id := range []string{v.req.RoleID, v.req.ParentRoleID} {
		owned, err := validation.CheckTenantOwnership(ctx, v.store, vctx, EntityRole, id, vctx.TenantID)
		if err != nil {
			return validation.Result{}, err
		}
		results = append(results, owned)
	}

	cyclic, err := v.wouldCycle(ctx, vctx.TenantID)
	if err != nil {
		return validation.Result{}, err
	}
	if cyclic {
		issue := validation.Error("parent_role_id", CodeCircularHierarchy,
			"the proposed parent is a descendant of this role")
		issue.Suggestion = "pick a parent outside the role's own subtree"
		issues = append(issues, issue)
	}

	results = append(results, validation.Collect(issues))
	return validation.Combine(results...), nil
}

// wouldCycle walks the parent chain from the proposed parent upwards. Any
// revisit of the role being reparented means the new edge closes a cycle.
// The walk is bounded by the tenant's role count, so a corrupt chain cannot
// loop forever.
func (v *HierarchyValidator) wouldCycle(ctx context.Context, tenantID string) (bool, error) {
	bound, err := v.store.RoleCount(ctx, tenantID)
	if err != nil {
		return false, err
	}
	current := v.req.ParentRoleID
	for i := int64(0); i <= bound; i++ {
		parent, ok, err := v.store.ParentRoleID(ctx, tenantID, current)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if parent == v.req.RoleID {
			return true, nil
		}
		current = parent
	}
	return true, nil
}
