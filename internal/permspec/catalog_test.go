package permspec

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, spec string) Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(spec))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return doc
}

func TestBuild_FirstOccurrenceDefines(t *testing.T) {
	c := Build(mustParse(t, sampleSpec))
	if len(c.Permissions) != 6 {
		t.Fatalf("expected 6 canonical permissions, got %d", len(c.Permissions))
	}
	// Project.create appears under ADMIN and PROJECT_MANAGER but is defined once.
	var creates int
	for _, p := range c.Permissions {
		if p.Key == (Key{Resource: "Project", Action: "create"}) {
			creates++
			if p.Name != "Create Project" {
				t.Fatalf("unexpected generated name %q", p.Name)
			}
			if p.Domain != "projects" {
				t.Fatalf("unexpected domain %q", p.Domain)
			}
		}
	}
	if creates != 1 {
		t.Fatalf("expected a single canonical Project.create, got %d", creates)
	}
}

func TestBuild_RoleGrantsDeduplicated(t *testing.T) {
	c := Build(mustParse(t, sampleSpec))
	worker := c.PermissionsFor("WORKER")
	if len(worker) != 1 || worker[0] != "Task.submit" {
		t.Fatalf("expected deduplicated worker grants, got %v", worker)
	}
}

func TestBuild_AdminAlwaysFullCatalog(t *testing.T) {
	c := Build(mustParse(t, sampleSpec))
	admin := c.PermissionsFor(AdminRole)
	if len(admin) != len(c.Permissions) {
		t.Fatalf("admin should hold %d permissions, got %d", len(c.Permissions), len(admin))
	}

	// Adding a permission the ADMIN section never mentions still grows the
	// admin matrix entry.
	grown := sampleSpec + "  VIEWER:\n    reports:\n      - Report.export\n"
	c2 := Build(mustParse(t, grown))
	admin2 := c2.PermissionsFor(AdminRole)
	if len(admin2) != len(admin)+1 {
		t.Fatalf("admin matrix did not grow with the catalog: %d -> %d", len(admin), len(admin2))
	}
	found := false
	for _, code := range admin2 {
		if code == "Report.export" {
			found = true
		}
	}
	if !found {
		t.Fatal("admin matrix is missing the newly added permission")
	}
}

func TestBuild_UnknownActionFallbackName(t *testing.T) {
	spec := "permissions:\n  ADMIN:\n    projects:\n      - Project.frobnicate\n"
	c := Build(mustParse(t, spec))
	if len(c.Permissions) != 1 {
		t.Fatalf("expected one permission, got %d", len(c.Permissions))
	}
	if c.Permissions[0].Name != "Frobnicate Project" {
		t.Fatalf("unexpected fallback name %q", c.Permissions[0].Name)
	}
}

func TestBuild_CatalogSectionOrphansAndUnused(t *testing.T) {
	spec := `catalog:
  projects:
    - Project.create
    - Project.archive
permissions:
  ADMIN:
    projects:
      - Project.create
      - Project.publish
`
	c := Build(mustParse(t, spec))
	orphans := c.Orphaned()
	if len(orphans) != 1 || orphans[0].Key.Code() != "Project.publish" {
		t.Fatalf("unexpected orphans: %+v", orphans)
	}
	unused := c.Unused()
	if len(unused) != 1 || unused[0].Key.Code() != "Project.archive" {
		t.Fatalf("unexpected unused: %+v", unused)
	}
}
