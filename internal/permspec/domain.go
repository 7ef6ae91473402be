// Package permspec compiles the declarative role/permission specification
// into the canonical enforcement artifacts consumed by internal/rbac.
package permspec

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key identifies a permission by its structured parts. The formatted
// "resource.action" code is produced only at serialization boundaries.
type Key struct {
	Resource string
	Action   string
}

// Code renders the canonical permission code.
func (k Key) Code() string {
	return k.Resource + "." + k.Action
}

// Permission is a canonical catalog entry derived from the specification.
type Permission struct {
	Key         Key
	Domain      string
	Name        string
	Description string
}

// GrantRef is a single permission reference inside the specification.
type GrantRef struct {
	Key    Key
	Domain string
	Line   int
}

// RoleGrant collects the references listed under one role section.
type RoleGrant struct {
	Role string
	Refs []GrantRef
}

// Document is the parsed specification, in first-seen order throughout.
type Document struct {
	// Definitions holds entries from the optional top-level catalog section.
	// When the section is present, role references must resolve against it.
	Definitions []GrantRef
	HasCatalog  bool
	Roles       []RoleGrant
}

// AdminRole is always granted the complete permission catalog.
const AdminRole = "ADMIN"

// RoleInfo describes one entry of the fixed role vocabulary.
type RoleInfo struct {
	Code        string
	Name        string
	Description string
	Level       int
}

// RoleVocabulary lists the platform roles in privilege order.
var RoleVocabulary = []RoleInfo{
	{Code: "ADMIN", Name: "Administrator", Description: "Full access to every tenant resource", Level: 100},
	{Code: "PROJECT_MANAGER", Name: "Project Manager", Description: "Plans projects and coordinates crew assignments", Level: 75},
	{Code: "WORKER", Name: "Worker", Description: "Executes assigned tasks in the field", Level: 50},
	{Code: "VIEWER", Name: "Viewer", Description: "Read-only access to tenant data", Level: 25},
	{Code: "DRIVER", Name: "Driver", Description: "Operates vehicles and logs trips", Level: 25},
}

// KnownRole reports whether code belongs to the role vocabulary.
func KnownRole(code string) bool {
	for _, r := range RoleVocabulary {
		if r.Code == code {
			return true
		}
	}
	return false
}

// ActionVocabulary fixes the set of verbs a permission code may use.
var ActionVocabulary = []string{
	"read", "create", "update", "soft_delete", "hard_delete", "restore",
	"archive", "activate", "deactivate", "assign", "unassign", "transfer",
	"approve", "reject", "submit", "review", "send", "export", "publish",
	"lock", "unlock", "duplicate",
}

var actionSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ActionVocabulary))
	for _, a := range ActionVocabulary {
		set[a] = struct{}{}
	}
	return set
}()

// KnownAction reports whether the action belongs to the fixed vocabulary.
func KnownAction(action string) bool {
	_, ok := actionSet[action]
	return ok
}

// actionTitles drives generated human names; the verb is prefixed to the resource.
var actionTitles = map[string]string{
	"read":        "View",
	"create":      "Create",
	"update":      "Update",
	"soft_delete": "Delete",
	"hard_delete": "Permanently Delete",
	"restore":     "Restore",
	"archive":     "Archive",
	"activate":    "Activate",
	"deactivate":  "Deactivate",
	"assign":      "Assign",
	"unassign":    "Unassign",
	"transfer":    "Transfer",
	"approve":     "Approve",
	"reject":      "Reject",
	"submit":      "Submit",
	"review":      "Review",
	"send":        "Send",
	"export":      "Export",
	"publish":     "Publish",
	"lock":        "Lock",
	"unlock":      "Unlock",
	"duplicate":   "Duplicate",
}

var actionDescriptions = map[string]string{
	"read":        "View %s records",
	"create":      "Create new %s records",
	"update":      "Modify existing %s records",
	"soft_delete": "Delete %s records (recoverable)",
	"hard_delete": "Permanently delete %s records",
	"restore":     "Restore previously deleted %s records",
	"archive":     "Archive %s records",
	"activate":    "Activate %s records",
	"deactivate":  "Deactivate %s records",
	"assign":      "Assign %s records to members",
	"unassign":    "Remove %s assignments from members",
	"transfer":    "Transfer %s records between owners",
	"approve":     "Approve %s records",
	"reject":      "Reject %s records",
	"submit":      "Submit %s records for review",
	"review":      "Review submitted %s records",
	"send":        "Send %s records to recipients",
	"export":      "Export %s records",
	"publish":     "Publish %s records",
	"lock":        "Lock %s records against changes",
	"unlock":      "Unlock %s records",
	"duplicate":   "Duplicate %s records",
}

var titleCaser = cases.Title(language.English)

// displayName derives the human name for a permission. Unknown actions fall
// back to a title-cased rendering of the action itself.
func displayName(k Key) string {
	if title, ok := actionTitles[k.Action]; ok {
		return title + " " + k.Resource
	}
	return titleCaser.String(strings.ReplaceAll(k.Action, "_", " ")) + " " + k.Resource
}

// displayDescription derives the generated description for a permission.
func displayDescription(k Key) string {
	if tmpl, ok := actionDescriptions[k.Action]; ok {
		return strings.Replace(tmpl, "%s", k.Resource, 1)
	}
	verb := strings.ToLower(strings.ReplaceAll(k.Action, "_", " "))
	return strings.ToUpper(verb[:1]) + verb[1:] + " " + k.Resource + " records"
}
