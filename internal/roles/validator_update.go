package roles

import (
	"context"
	"errors"
	"strings"

	"github.com/crewbase/crewbase/internal/shared"
	"github.com/crewbase/crewbase/internal/validation"
)

// UpdateValidator runs the semantic checks behind role updates.
type UpdateValidator struct {
	store Store
	req   UpdateRoleRequest
}

// NewUpdateValidator builds the validator for one update request.
func NewUpdateValidator(store Store, req UpdateRoleRequest) *UpdateValidator {
	return &UpdateValidator{store: store, req: req}
}

func (v *UpdateValidator) EntityKind() string { return EntityRole }

func (v *UpdateValidator) Subject() any { return v.req }

// ValidateSemantics verifies the target belongs to the tenant and re-checks
// uniqueness for any changed code or name, excluding the role's own id.
func (v *UpdateValidator) ValidateSemantics(ctx context.Context, vctx validation.Context) (validation.Result, error) {
	var results []validation.Result
	var issues []validation.Issue

	owned, err := validation.CheckTenantOwnership(ctx, v.store, vctx, EntityRole, v.req.RoleID, vctx.TenantID)
	if err != nil {
		return validation.Result{}, err
	}
	results = append(results, owned)

	existing, err := v.store.RoleByID(ctx, vctx.TenantID, v.req.RoleID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		// The ownership check above already reported the missing role.
		return validation.Combine(append(results, validation.Collect(issues))...), nil
	case err != nil:
		return validation.Result{}, err
	}

	if v.req.Code != nil && *v.req.Code != existing.Code {
		codeUnique, err := validation.CheckUniqueness(ctx, v.store, vctx, EntityRole, "code", *v.req.Code, v.req.RoleID)
		if err != nil {
			return validation.Result{}, err
		}
		results = append(results, codeUnique)

		if strings.Contains(existing.Code, "SYSTEM") {
			warn := validation.Warning("code", CodeSystemCodeModification,
				"modifying the code of a SYSTEM-named role")
			warn.Suggestion = "verify downstream integrations before renaming"
			issues = append(issues, warn)
		}
	}
	if v.req.Name != nil && *v.req.Name != existing.Name {
		nameUnique, err := validation.CheckUniqueness(ctx, v.store, vctx, EntityRole, "name", *v.req.Name, v.req.RoleID)
		if err != nil {
			return validation.Result{}, err
		}
		results = append(results, nameUnique)
	}

	results = append(results, validation.Collect(issues))
	return validation.Combine(results...), nil
}
