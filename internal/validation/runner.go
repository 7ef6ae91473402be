package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator is implemented by every entity validator. Subject exposes the
// raw input for the structural phase; ValidateSemantics runs the
// store-backed checks once the input is structurally sound.
type Validator interface {
	EntityKind() string
	Subject() any
	ValidateSemantics(ctx context.Context, vctx Context) (Result, error)
}

// TenantScope establishes a scoped execution context binding all store
// access to a single tenant and actor. Implemented by the persistence layer.
type TenantScope interface {
	// Acquire returns a context carrying the tenant-bound resources and a
	// release function the runner guarantees to call on every exit path.
	Acquire(ctx context.Context, vctx Context) (context.Context, func(), error)
}

// Runner drives the two-phase validation state machine: structural check,
// then semantic check, terminal states carrying the accumulated duration.
type Runner struct {
	structural *validator.Validate
	logger     *slog.Logger
}

// NewRunner builds a runner with a fresh structural validator instance.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{
		structural: validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

// RegisterRule adds a custom structural validation tag.
func (r *Runner) RegisterRule(tag string, fn validator.Func) error {
	return r.structural.RegisterValidation(tag, fn)
}

// Validate runs both phases. The structural phase never touches the store;
// on structural failure the semantic phase never runs. Unexpected semantic
// errors are converted into a single ASYNC_VALIDATION_ERROR issue so the
// caller always receives a structured result.
func (r *Runner) Validate(ctx context.Context, v Validator, vctx Context) Result {
	started := time.Now()
	res := r.run(ctx, v, vctx)
	res.Duration = time.Since(started)
	res.Context = vctx
	return res
}

// ValidateScoped wraps the two-phase call inside a tenant-isolation scope.
// No store access occurs without an established tenant scope; the scope is
// released on every exit path, including panics out of the semantic phase.
func (r *Runner) ValidateScoped(ctx context.Context, scope TenantScope, v Validator, vctx Context) Result {
	started := time.Now()
	res := r.runScoped(ctx, scope, v, vctx)
	res.Duration = time.Since(started)
	res.Context = vctx
	return res
}

func (r *Runner) run(ctx context.Context, v Validator, vctx Context) Result {
	if issues := r.structuralIssues(v); len(issues) > 0 {
		return Failure(issues...)
	}
	return r.semantic(ctx, v, vctx)
}

func (r *Runner) runScoped(ctx context.Context, scope TenantScope, v Validator, vctx Context) Result {
	if vctx.TenantID == "" {
		return Failure(Error("tenant_id", CodeMissingTenantID, "validation context is missing a tenant id"))
	}
	if issues := r.structuralIssues(v); len(issues) > 0 {
		return Failure(issues...)
	}
	scopedCtx, release, err := scope.Acquire(ctx, vctx)
	if err != nil {
		return Failure(Error("", CodeAsyncError, fmt.Sprintf("acquire tenant scope: %v", err)))
	}
	defer release()
	return r.semantic(scopedCtx, v, vctx)
}

func (r *Runner) semantic(ctx context.Context, v Validator, vctx Context) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.logger != nil {
				r.logger.Error("semantic validation panicked",
					slog.String("entity", v.EntityKind()),
					slog.String("correlation_id", vctx.CorrelationID),
					slog.Any("panic", rec))
			}
			res = Failure(Error("", CodeAsyncError, fmt.Sprintf("%s validation failed unexpectedly", v.EntityKind())))
		}
	}()
	res, err := v.ValidateSemantics(ctx, vctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("semantic validation error",
				slog.String("entity", v.EntityKind()),
				slog.String("correlation_id", vctx.CorrelationID),
				slog.Any("error", err))
		}
		return Failure(Error("", CodeAsyncError, fmt.Sprintf("%s validation failed unexpectedly", v.EntityKind())))
	}
	return res
}

func (r *Runner) structuralIssues(v Validator) []Issue {
	err := r.structural.Struct(v.Subject())
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Issue{Error("", CodeStructural, err.Error())}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Error(fe.Field(), CodeStructural, structuralMessage(fe)))
	}
	return issues
}

func structuralMessage(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("field %s failed %s=%s validation", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("field %s failed %s validation", fe.Field(), fe.Tag())
}
