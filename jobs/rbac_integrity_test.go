package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/crewbase/crewbase/internal/validation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeIntegrityStore struct {
	tenants  []string
	orphans  map[string][]string
	expired  map[string][]string
	storeErr error
}

func (f *fakeIntegrityStore) TenantIDs(ctx context.Context) ([]string, error) {
	return f.tenants, nil
}

func (f *fakeIntegrityStore) OrphanedRolePermissions(ctx context.Context, tenantID string) ([]string, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	return f.orphans[tenantID], nil
}

func (f *fakeIntegrityStore) ExpiredActiveAssignments(ctx context.Context, tenantID string) ([]string, error) {
	return f.expired[tenantID], nil
}

type noopScope struct{}

func (noopScope) Acquire(ctx context.Context, vctx validation.Context) (context.Context, func(), error) {
	return ctx, func() {}, nil
}

func scanTask(t *testing.T, payload IntegrityScanPayload) *asynq.Task {
	t.Helper()
	task, err := NewIntegrityScanTask(payload)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func TestIntegrityScan_CleanTenant(t *testing.T) {
	store := &fakeIntegrityStore{tenants: []string{"t1"}}
	scanner := NewIntegrityScanner(store, noopScope{}, validation.NewRunner(nil), discardLogger())

	err := scanner.HandleIntegrityScan(context.Background(), scanTask(t, IntegrityScanPayload{}))
	if err != nil {
		t.Fatalf("clean scan must succeed: %v", err)
	}
}

func TestIntegrityScan_FindingsAreNotErrors(t *testing.T) {
	store := &fakeIntegrityStore{
		tenants: []string{"t1"},
		orphans: map[string][]string{"t1": {"FOREMAN:Project.lock"}},
		expired: map[string][]string{"t1": {"assignment-1"}},
	}
	scanner := NewIntegrityScanner(store, noopScope{}, validation.NewRunner(nil), discardLogger())

	err := scanner.HandleIntegrityScan(context.Background(), scanTask(t, IntegrityScanPayload{TenantID: "t1"}))
	if err != nil {
		t.Fatalf("findings must be logged, not returned: %v", err)
	}
}

func TestIntegrityScan_StoreFailureRetries(t *testing.T) {
	store := &fakeIntegrityStore{tenants: []string{"t1"}, storeErr: errors.New("connection reset")}
	scanner := NewIntegrityScanner(store, noopScope{}, validation.NewRunner(nil), discardLogger())

	err := scanner.HandleIntegrityScan(context.Background(), scanTask(t, IntegrityScanPayload{TenantID: "t1"}))
	if err == nil {
		t.Fatal("store failure must be returned so asynq retries")
	}
}

func TestIntegrityScan_BadPayloadSkipsRetry(t *testing.T) {
	scanner := NewIntegrityScanner(&fakeIntegrityStore{}, noopScope{}, validation.NewRunner(nil), discardLogger())
	task := asynq.NewTask(TaskIntegrityScan, []byte("{not json"))

	err := scanner.HandleIntegrityScan(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload must skip retry, got %v", err)
	}
}
