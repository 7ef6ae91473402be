// Package validation provides the two-phase validation runtime shared by all
// entity validators: a fast structural check of the raw input followed by a
// store-backed semantic check executed under tenant isolation.
package validation

import "time"

// Severity classifies an issue. Errors block the operation; warnings are
// advisory and never block.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Stable machine codes raised by the runtime itself. Entity validators add
// their own codes on top.
const (
	CodeStructural       = "STRUCTURAL_VALIDATION"
	CodeMissingTenantID  = "MISSING_TENANT_ID"
	CodeAsyncError       = "ASYNC_VALIDATION_ERROR"
	CodeDuplicateValue   = "DUPLICATE_VALUE"
	CodeInvalidOwnership = "INVALID_TENANT_OWNERSHIP"
	CodeInvalidReference = "INVALID_ENTITY_REFERENCE"
)

// Issue is a single validation outcome with a stable machine code and a
// human-readable message.
type Issue struct {
	Field      string         `json:"field,omitempty"`
	Message    string         `json:"message"`
	Code       string         `json:"code"`
	Severity   Severity       `json:"severity"`
	Suggestion string         `json:"suggestion,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Error builds a blocking issue.
func Error(field, code, message string) Issue {
	return Issue{Field: field, Code: code, Message: message, Severity: SeverityError}
}

// Warning builds an advisory issue.
func Warning(field, code, message string) Issue {
	return Issue{Field: field, Code: code, Message: message, Severity: SeverityWarning}
}

// Result is the structured outcome of a validation call. Callers always
// receive a Result for expected failures; errors are reserved for broken
// preconditions.
type Result struct {
	Valid    bool          `json:"valid"`
	Errors   []Issue       `json:"errors,omitempty"`
	Warnings []Issue       `json:"warnings,omitempty"`
	Duration time.Duration `json:"duration"`
	Context  Context       `json:"context"`
}

// Success returns a passing result carrying optional warnings.
func Success(warnings ...Issue) Result {
	return Result{Valid: true, Warnings: warnings}
}

// Failure returns a failing result with the given blocking issues.
func Failure(issues ...Issue) Result {
	return Result{Valid: false, Errors: issues}
}

// Collect partitions issues by severity into a result; the result is valid
// when no ERROR-severity issue is present.
func Collect(issues []Issue) Result {
	var res Result
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			res.Errors = append(res.Errors, issue)
		} else {
			res.Warnings = append(res.Warnings, issue)
		}
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// HasError reports whether the result carries a blocking issue with the code.
func (r Result) HasError(code string) bool {
	for _, issue := range r.Errors {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// HasWarning reports whether the result carries a warning with the code.
func (r Result) HasWarning(code string) bool {
	for _, issue := range r.Warnings {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Combine aggregates independent validation outcomes. The aggregate succeeds
// only when every input succeeded; on failure it carries the union of every
// input's blocking issues, never just the first. Durations are summed.
func Combine(results ...Result) Result {
	combined := Result{Valid: true}
	for _, res := range results {
		combined.Errors = append(combined.Errors, res.Errors...)
		combined.Warnings = append(combined.Warnings, res.Warnings...)
		combined.Duration += res.Duration
		if !res.Valid {
			combined.Valid = false
		}
		if combined.Context.TenantID == "" {
			combined.Context = res.Context
		}
	}
	return combined
}
