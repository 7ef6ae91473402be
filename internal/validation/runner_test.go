package validation

import (
	"context"
	"errors"
	"testing"
)

type stubInput struct {
	Code string `validate:"required,min=2"`
	Name string `validate:"required"`
}

type stubValidator struct {
	input    stubInput
	result   Result
	err      error
	panicked bool
	calls    int
}

func (s *stubValidator) EntityKind() string { return "stub" }
func (s *stubValidator) Subject() any       { return s.input }
func (s *stubValidator) ValidateSemantics(ctx context.Context, vctx Context) (Result, error) {
	s.calls++
	if s.panicked {
		panic("boom")
	}
	return s.result, s.err
}

type stubScope struct {
	acquired int
	released int
	err      error
}

func (s *stubScope) Acquire(ctx context.Context, vctx Context) (context.Context, func(), error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.acquired++
	return ctx, func() { s.released++ }, nil
}

func TestRunner_StructuralFailureShortCircuits(t *testing.T) {
	runner := NewRunner(nil)
	v := &stubValidator{input: stubInput{Code: "X"}}
	res := runner.Validate(context.Background(), v, NewContext("t1", "a1", "stub"))
	if res.Valid {
		t.Fatal("structurally invalid input must fail")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected issues for Code and Name, got %+v", res.Errors)
	}
	for _, issue := range res.Errors {
		if issue.Code != CodeStructural {
			t.Fatalf("unexpected issue code %s", issue.Code)
		}
	}
	if v.calls != 0 {
		t.Fatal("semantic phase must not run after structural failure")
	}
}

func TestRunner_SemanticSuccessWithWarnings(t *testing.T) {
	runner := NewRunner(nil)
	v := &stubValidator{
		input:  stubInput{Code: "OK", Name: "ok"},
		result: Success(Warning("code", "ADVISORY", "heads up")),
	}
	res := runner.Validate(context.Background(), v, NewContext("t1", "a1", "stub"))
	if !res.Valid {
		t.Fatalf("expected success, got %+v", res.Errors)
	}
	if !res.HasWarning("ADVISORY") {
		t.Fatal("warnings must pass through")
	}
	if res.Duration <= 0 {
		t.Fatal("result must carry accumulated duration")
	}
	if res.Context.TenantID != "t1" {
		t.Fatal("result must carry the validation context")
	}
}

func TestRunner_SemanticErrorConvertsToIssue(t *testing.T) {
	runner := NewRunner(nil)
	v := &stubValidator{
		input: stubInput{Code: "OK", Name: "ok"},
		err:   errors.New("store exploded"),
	}
	res := runner.Validate(context.Background(), v, NewContext("t1", "a1", "stub"))
	if res.Valid || !res.HasError(CodeAsyncError) {
		t.Fatalf("expected ASYNC_VALIDATION_ERROR, got %+v", res)
	}
}

func TestRunner_SemanticPanicConvertsToIssue(t *testing.T) {
	runner := NewRunner(nil)
	v := &stubValidator{input: stubInput{Code: "OK", Name: "ok"}, panicked: true}
	res := runner.Validate(context.Background(), v, NewContext("t1", "a1", "stub"))
	if res.Valid || !res.HasError(CodeAsyncError) {
		t.Fatalf("expected ASYNC_VALIDATION_ERROR after panic, got %+v", res)
	}
}

func TestRunner_ScopedFailsFastWithoutTenant(t *testing.T) {
	runner := NewRunner(nil)
	scope := &stubScope{}
	v := &stubValidator{input: stubInput{Code: "OK", Name: "ok"}, result: Success()}
	vctx := NewContext("", "a1", "stub")
	res := runner.ValidateScoped(context.Background(), scope, v, vctx)
	if res.Valid || !res.HasError(CodeMissingTenantID) {
		t.Fatalf("expected MISSING_TENANT_ID, got %+v", res)
	}
	if scope.acquired != 0 {
		t.Fatal("scope must not be acquired without a tenant id")
	}
	if v.calls != 0 {
		t.Fatal("semantic phase must not run without a tenant scope")
	}
}

func TestRunner_ScopedReleasesOnEveryExit(t *testing.T) {
	runner := NewRunner(nil)
	vctx := NewContext("t1", "a1", "stub")

	scope := &stubScope{}
	ok := &stubValidator{input: stubInput{Code: "OK", Name: "ok"}, result: Success()}
	if res := runner.ValidateScoped(context.Background(), scope, ok, vctx); !res.Valid {
		t.Fatalf("expected success, got %+v", res.Errors)
	}
	if scope.released != 1 {
		t.Fatalf("scope not released on success: %d", scope.released)
	}

	failing := &stubValidator{input: stubInput{Code: "OK", Name: "ok"}, result: Failure(Error("code", "X", "nope"))}
	runner.ValidateScoped(context.Background(), scope, failing, vctx)
	if scope.released != 2 {
		t.Fatalf("scope not released on failure: %d", scope.released)
	}

	panicking := &stubValidator{input: stubInput{Code: "OK", Name: "ok"}, panicked: true}
	runner.ValidateScoped(context.Background(), scope, panicking, vctx)
	if scope.released != 3 {
		t.Fatalf("scope not released after panic: %d", scope.released)
	}
}

func TestRunner_ScopedAcquireFailure(t *testing.T) {
	runner := NewRunner(nil)
	scope := &stubScope{err: errors.New("no connections")}
	v := &stubValidator{input: stubInput{Code: "OK", Name: "ok"}, result: Success()}
	res := runner.ValidateScoped(context.Background(), scope, v, NewContext("t1", "a1", "stub"))
	if res.Valid || !res.HasError(CodeAsyncError) {
		t.Fatalf("expected ASYNC_VALIDATION_ERROR, got %+v", res)
	}
	if v.calls != 0 {
		t.Fatal("semantic phase must not run when the scope cannot be acquired")
	}
}

func TestNewContext(t *testing.T) {
	vctx := NewContext("t1", "a1", "role")
	if vctx.CorrelationID == "" {
		t.Fatal("expected a correlation id")
	}
	if vctx.OccurredAt.IsZero() {
		t.Fatal("expected a timestamp")
	}
	bound := vctx.WithEntity("e1")
	if bound.EntityID != "e1" || vctx.EntityID != "" {
		t.Fatal("WithEntity must not mutate the receiver")
	}
}
