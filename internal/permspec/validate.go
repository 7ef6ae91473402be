package permspec

import "fmt"

// Finding is a single outcome of the specification validation pass.
type Finding struct {
	Code    string
	Message string
	Line    int
}

// Report groups findings by severity. Generation must not proceed when
// Errors is non-empty.
type Report struct {
	Errors   []Finding
	Warnings []Finding
	Infos    []Finding
}

// OK reports whether the specification may be compiled.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the standalone validation pass over a parsed document.
func Validate(doc Document) Report {
	var rep Report
	c := Build(doc)

	if len(doc.Roles) == 0 {
		rep.Errors = append(rep.Errors, Finding{Code: "NO_ROLES", Message: "specification defines no roles"})
	}
	if len(c.Permissions) == 0 {
		rep.Errors = append(rep.Errors, Finding{Code: "NO_PERMISSIONS", Message: "specification defines no permissions"})
	}
	for _, role := range doc.Roles {
		if !KnownRole(role.Role) {
			rep.Errors = append(rep.Errors, Finding{
				Code:    "UNKNOWN_ROLE",
				Message: fmt.Sprintf("role %s is not part of the role vocabulary", role.Role),
			})
		}
		if len(role.Refs) == 0 {
			rep.Warnings = append(rep.Warnings, Finding{
				Code:    "EMPTY_ROLE",
				Message: fmt.Sprintf("role %s has no permissions assigned", role.Role),
			})
		}
	}
	for _, p := range c.Permissions {
		if !KnownAction(p.Key.Action) {
			rep.Errors = append(rep.Errors, Finding{
				Code:    "UNKNOWN_ACTION",
				Message: fmt.Sprintf("permission %s uses action %q outside the action vocabulary", p.Key.Code(), p.Key.Action),
			})
		}
	}
	for _, ref := range c.Orphaned() {
		rep.Errors = append(rep.Errors, Finding{
			Code:    "ORPHANED_PERMISSION",
			Message: fmt.Sprintf("permission %s is referenced but never defined", ref.Key.Code()),
			Line:    ref.Line,
		})
	}
	for _, p := range c.Unused() {
		rep.Infos = append(rep.Infos, Finding{
			Code:    "UNUSED_PERMISSION",
			Message: fmt.Sprintf("permission %s is defined but no role references it", p.Key.Code()),
		})
	}
	return rep
}
