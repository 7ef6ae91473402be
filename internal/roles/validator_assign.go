package roles

import (
	"context"
	"time"

	"github.com/crewbase/crewbase/internal/validation"
)

// longTermWindow marks assignments whose expiry sits unusually far out.
const longTermWindow = 2 * 365 * 24 * time.Hour

// AssignValidator runs the semantic checks behind role assignment.
type AssignValidator struct {
	store Store
	req   AssignRoleRequest
	now   func() time.Time
}

// NewAssignValidator builds the validator for one assignment request.
func NewAssignValidator(store Store, req AssignRoleRequest) *AssignValidator {
	return &AssignValidator{store: store, req: req, now: time.Now}
}

func (v *AssignValidator) EntityKind() string { return "role_assignment" }

func (v *AssignValidator) Subject() any { return v.req }

// ValidateSemantics requires tenant ownership of the role, the assignee and
// the assigner, and enforces the expiry rules.
func (v *AssignValidator) ValidateSemantics(ctx context.Context, vctx validation.Context) (validation.Result, error) {
	var results []validation.Result
	var issues []validation.Issue

	for _, target := range []struct {
		entityType string
		id         string
	}{
		{EntityRole, v.req.RoleID},
		{EntityMember, v.req.MemberID},
		{EntityMember, v.req.AssignedBy},
	} {
		owned, err := validation.CheckTenantOwnership(ctx, v.store, vctx, target.entityType, target.id, vctx.TenantID)
		if err != nil {
			return validation.Result{}, err
		}
		results = append(results, owned)
	}

	if v.req.ExpiresAt != nil {
		now := v.now()
		switch {
		case !v.req.ExpiresAt.After(now):
			issue := validation.Error("expires_at", CodePastExpiration,
				"expiration date must be strictly in the future")
			issue.Suggestion = "choose a future expiration date or omit it"
			issues = append(issues, issue)
		case v.req.ExpiresAt.After(now.Add(longTermWindow)):
			issues = append(issues, validation.Warning("expires_at", CodeLongTermAssignment,
				"assignment expires more than two years out"))
		}
	}

	if v.req.MemberID == v.req.AssignedBy {
		warn := validation.Warning("member_id", CodeSelfAssignment,
			"actor is assigning a role to themselves")
		warn.Meta = map[string]any{"requires_approval": true}
		issues = append(issues, warn)
	}

	results = append(results, validation.Collect(issues))
	return validation.Combine(results...), nil
}
