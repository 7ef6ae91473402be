package validation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Store is the narrow persistence surface the semantic primitives need.
// Every query is parameterized by tenant; that parameterization is an
// invariant, not an optimization.
type Store interface {
	// CountFieldValue counts records of entityType in the tenant whose field
	// equals value, ignoring excludeID when non-empty.
	CountFieldValue(ctx context.Context, tenantID, entityType, field, value, excludeID string) (int64, error)
	// EntityTenant resolves the owning tenant of an entity.
	EntityTenant(ctx context.Context, entityType, entityID string) (tenantID string, exists bool, err error)
	// EntityExists reports whether the referenced entity exists.
	EntityExists(ctx context.Context, entityType, entityID string) (bool, error)
}

// EntityRef names one referenced entity and the input field that carried it.
type EntityRef struct {
	Type  string
	ID    string
	Field string
}

// CheckFunc is one independent semantic check.
type CheckFunc func(ctx context.Context) (Result, error)

// CheckUniqueness fails with DUPLICATE_VALUE when another record in the same
// tenant already holds this value for this field. excludeID lets update flows
// ignore the record being updated.
func CheckUniqueness(ctx context.Context, store Store, vctx Context, entityType, field, value, excludeID string) (Result, error) {
	started := time.Now()
	count, err := store.CountFieldValue(ctx, vctx.TenantID, entityType, field, value, excludeID)
	if err != nil {
		return Result{}, fmt.Errorf("validation: uniqueness check on %s.%s: %w", entityType, field, err)
	}
	res := Success()
	if count > 0 {
		issue := Error(field, CodeDuplicateValue, fmt.Sprintf("a %s with this %s already exists", entityType, field))
		issue.Suggestion = fmt.Sprintf("choose a different %s", field)
		res = Failure(issue)
	}
	res.Duration = time.Since(started)
	res.Context = vctx
	return res, nil
}

// CheckTenantOwnership fails with INVALID_TENANT_OWNERSHIP when the entity
// does not belong to the stated tenant.
func CheckTenantOwnership(ctx context.Context, store Store, vctx Context, entityType, entityID, tenantID string) (Result, error) {
	started := time.Now()
	owner, exists, err := store.EntityTenant(ctx, entityType, entityID)
	if err != nil {
		return Result{}, fmt.Errorf("validation: ownership check on %s %s: %w", entityType, entityID, err)
	}
	res := Success()
	if !exists || owner != tenantID {
		res = Failure(Error("", CodeInvalidOwnership, fmt.Sprintf("%s %s does not belong to this tenant", entityType, entityID)))
	}
	res.Duration = time.Since(started)
	res.Context = vctx
	return res, nil
}

// CheckEntityReferences verifies that every referenced entity exists. All
// references are checked and all issues collected; the check never stops at
// the first missing reference.
func CheckEntityReferences(ctx context.Context, store Store, vctx Context, refs []EntityRef) (Result, error) {
	started := time.Now()
	var issues []Issue
	for _, ref := range refs {
		exists, err := store.EntityExists(ctx, ref.Type, ref.ID)
		if err != nil {
			return Result{}, fmt.Errorf("validation: reference check on %s %s: %w", ref.Type, ref.ID, err)
		}
		if !exists {
			issues = append(issues, Error(ref.Field, CodeInvalidReference, fmt.Sprintf("referenced %s %s does not exist", ref.Type, ref.ID)))
		}
	}
	res := Success()
	if len(issues) > 0 {
		res = Failure(issues...)
	}
	res.Duration = time.Since(started)
	res.Context = vctx
	return res, nil
}

// RunAll executes independent checks concurrently and combines their
// outcomes. Validation failures do not cancel sibling checks; only a broken
// precondition (a returned error) aborts the group.
func RunAll(ctx context.Context, fns ...CheckFunc) (Result, error) {
	results := make([]Result, len(fns))
	g, gctx := errgroup.WithContext(ctx)
	for i, fn := range fns {
		g.Go(func() error {
			res, err := fn(gctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Combine(results...), nil
}
