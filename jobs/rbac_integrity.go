package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/crewbase/crewbase/internal/validation"
)

// IntegrityStore exposes the referential-integrity queries the scan needs.
// roles.Repository implements it.
type IntegrityStore interface {
	TenantIDs(ctx context.Context) ([]string, error)
	OrphanedRolePermissions(ctx context.Context, tenantID string) ([]string, error)
	ExpiredActiveAssignments(ctx context.Context, tenantID string) ([]string, error)
}

// IntegrityScanner runs the nightly RBAC referential-integrity scan through
// the validation runtime, one tenant scope at a time.
type IntegrityScanner struct {
	store  IntegrityStore
	scope  validation.TenantScope
	runner *validation.Runner
	logger *slog.Logger
}

// NewIntegrityScanner wires the scanner.
func NewIntegrityScanner(store IntegrityStore, scope validation.TenantScope, runner *validation.Runner, logger *slog.Logger) *IntegrityScanner {
	return &IntegrityScanner{store: store, scope: scope, runner: runner, logger: logger}
}

// HandleIntegrityScan processes TaskIntegrityScan tasks. Store failures are
// returned so asynq retries the scan; integrity findings are logged, not
// errors.
func (s *IntegrityScanner) HandleIntegrityScan(ctx context.Context, t *asynq.Task) error {
	var payload IntegrityScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tenants := []string{payload.TenantID}
	if payload.TenantID == "" {
		var err error
		tenants, err = s.store.TenantIDs(ctx)
		if err != nil {
			return fmt.Errorf("jobs: list tenants: %w", err)
		}
	}

	for _, tenantID := range tenants {
		res := s.runner.ValidateScoped(ctx, s.scope,
			&integrityValidator{store: s.store, tenantID: tenantID},
			validation.NewContext(tenantID, "integrity-scan", "rbac"))
		if res.HasError(validation.CodeAsyncError) {
			return fmt.Errorf("jobs: integrity scan failed for tenant %s", tenantID)
		}
		s.logger.Info("rbac integrity scan",
			slog.String("tenant_id", tenantID),
			slog.String("correlation_id", res.Context.CorrelationID),
			slog.Bool("clean", res.Valid),
			slog.Int("findings", len(res.Errors)+len(res.Warnings)),
			slog.Duration("took", res.Duration))
		for _, issue := range res.Errors {
			s.logger.Warn("rbac integrity finding",
				slog.String("tenant_id", tenantID),
				slog.String("code", issue.Code),
				slog.String("message", issue.Message))
		}
	}
	return nil
}

// integrityValidator adapts the scan queries to the validation runtime so
// the scan inherits its tenant scoping and panic handling.
type integrityValidator struct {
	store    IntegrityStore
	tenantID string
}

type integritySubject struct {
	TenantID string `validate:"required"`
}

func (v *integrityValidator) EntityKind() string { return "rbac_integrity" }

func (v *integrityValidator) Subject() any {
	return integritySubject{TenantID: v.tenantID}
}

func (v *integrityValidator) ValidateSemantics(ctx context.Context, vctx validation.Context) (validation.Result, error) {
	var issues []validation.Issue

	orphans, err := v.store.OrphanedRolePermissions(ctx, vctx.TenantID)
	if err != nil {
		return validation.Result{}, err
	}
	for _, link := range orphans {
		issues = append(issues, validation.Error("role_permissions", validation.CodeInvalidReference,
			fmt.Sprintf("grant %s references a permission missing from the catalog", link)))
	}

	expired, err := v.store.ExpiredActiveAssignments(ctx, vctx.TenantID)
	if err != nil {
		return validation.Result{}, err
	}
	for _, id := range expired {
		issues = append(issues, validation.Warning("role_assignments", "EXPIRED_ASSIGNMENT",
			fmt.Sprintf("assignment %s is past its expiry and should be cleaned up", id)))
	}

	return validation.Collect(issues), nil
}
