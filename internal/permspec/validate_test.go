package permspec

import (
	"strings"
	"testing"
)

func findingCodes(fs []Finding) []string {
	codes := make([]string, len(fs))
	for i, f := range fs {
		codes[i] = f.Code
	}
	return codes
}

func hasFinding(fs []Finding, code string) bool {
	for _, f := range fs {
		if f.Code == code {
			return true
		}
	}
	return false
}

func TestValidate_CleanSpec(t *testing.T) {
	rep := Validate(mustParse(t, sampleSpec))
	if !rep.OK() {
		t.Fatalf("expected valid specification, got errors %v", findingCodes(rep.Errors))
	}
	if len(rep.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", findingCodes(rep.Warnings))
	}
}

func TestValidate_EmptyDocument(t *testing.T) {
	rep := Validate(Document{})
	if rep.OK() {
		t.Fatal("empty document must not validate")
	}
	if !hasFinding(rep.Errors, "NO_ROLES") || !hasFinding(rep.Errors, "NO_PERMISSIONS") {
		t.Fatalf("expected NO_ROLES and NO_PERMISSIONS, got %v", findingCodes(rep.Errors))
	}
}

func TestValidate_EmptyRoleIsWarningOnly(t *testing.T) {
	spec := "permissions:\n  ADMIN:\n    projects:\n      - Project.read\n  VIEWER:\n"
	rep := Validate(mustParse(t, spec))
	if !rep.OK() {
		t.Fatalf("expected valid, got errors %v", findingCodes(rep.Errors))
	}
	if !hasFinding(rep.Warnings, "EMPTY_ROLE") {
		t.Fatalf("expected EMPTY_ROLE warning, got %v", findingCodes(rep.Warnings))
	}
}

func TestValidate_UnknownRoleIsFatal(t *testing.T) {
	spec := "permissions:\n  OVERLORD:\n    projects:\n      - Project.read\n"
	rep := Validate(mustParse(t, spec))
	if rep.OK() || !hasFinding(rep.Errors, "UNKNOWN_ROLE") {
		t.Fatalf("expected UNKNOWN_ROLE error, got %v", findingCodes(rep.Errors))
	}
}

func TestValidate_UnknownActionIsFatal(t *testing.T) {
	spec := "permissions:\n  ADMIN:\n    projects:\n      - Project.frobnicate\n"
	rep := Validate(mustParse(t, spec))
	if rep.OK() || !hasFinding(rep.Errors, "UNKNOWN_ACTION") {
		t.Fatalf("expected UNKNOWN_ACTION error, got %v", findingCodes(rep.Errors))
	}
}

func TestValidate_OrphanedFatalUnusedInfo(t *testing.T) {
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
	rep := Validate(mustParse(t, spec))
	if rep.OK() || !hasFinding(rep.Errors, "ORPHANED_PERMISSION") {
		t.Fatalf("expected ORPHANED_PERMISSION error, got %v", findingCodes(rep.Errors))
	}
	if !hasFinding(rep.Infos, "UNUSED_PERMISSION") {
		t.Fatalf("expected UNUSED_PERMISSION info, got %v", findingCodes(rep.Infos))
	}
}

func TestValidate_RoleCodesMatchVocabularyShape(t *testing.T) {
	for _, info := range RoleVocabulary {
		if len(info.Code) < 2 {
			t.Fatalf("role %s shorter than two characters", info.Code)
		}
		if info.Code != strings.ToUpper(info.Code) {
			t.Fatalf("role %s is not uppercase", info.Code)
		}
	}
}
