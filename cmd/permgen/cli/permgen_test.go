package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validSpec = `permissions:
  ADMIN:
    projects:
      - Project.create
      - Project.read
  WORKER:
    projects:
      - Project.read
`

const orphanSpec = `catalog:
  projects:
    - Project.read

permissions:
  ADMIN:
    projects:
      - Project.read
  WORKER:
    projects:
      - Project.update
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "permissions.spec")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

func TestValidateCommand_ValidSpec(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := ValidateCommand(ValidateOptions{
		SpecPath: writeSpec(t, validSpec),
		Stdout:   &stdout,
		Stderr:   &stderr,
	})
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "specification is valid") {
		t.Fatalf("missing success message: %s", stdout.String())
	}
}

func TestValidateCommand_OrphanFailsWithJSON(t *testing.T) {
	var stdout bytes.Buffer
	code := ValidateCommand(ValidateOptions{
		SpecPath:   writeSpec(t, orphanSpec),
		JSONOutput: true,
		Stdout:     &stdout,
		Stderr:     &bytes.Buffer{},
	})
	if code != 1 {
		t.Fatalf("validate must exit 1 for an invalid spec, got %d", code)
	}
	var summary ValidateSummary
	if err := json.Unmarshal(stdout.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.OK {
		t.Fatal("summary must not be ok")
	}
	found := false
	for _, f := range summary.Errors {
		if f.Code == "ORPHANED_PERMISSION" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ORPHANED_PERMISSION, got %+v", summary.Errors)
	}
}

func TestValidateCommand_MissingFile(t *testing.T) {
	code := ValidateCommand(ValidateOptions{
		SpecPath: filepath.Join(t.TempDir(), "absent.spec"),
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	})
	if code != 1 {
		t.Fatalf("expected exit 1 for missing file, got %d", code)
	}
}

func TestGenerateCommand_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "rbac")
	sqlDir := filepath.Join(dir, "seed")
	for _, d := range []string{outDir, sqlDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	var stdout, stderr bytes.Buffer
	code := GenerateCommand(GenerateOptions{
		SpecPath: writeSpec(t, validSpec),
		OutDir:   outDir,
		SQLDir:   sqlDir,
		Package:  "rbac",
		Stdout:   &stdout,
		Stderr:   &stderr,
	})
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	for _, name := range []string{"permissions_gen.go", "roles_gen.go", "guards_gen.go"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "// Code generated by permgen. DO NOT EDIT.") {
			t.Fatalf("%s is missing the generated header", name)
		}
	}
	seed, err := os.ReadFile(filepath.Join(sqlDir, "seed_rbac.sql"))
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}
	if !strings.Contains(string(seed), "ON CONFLICT (code) DO NOTHING") {
		t.Fatal("seed must be idempotent")
	}
}

func TestGenerateCommand_RefusesInvalidSpec(t *testing.T) {
	dir := t.TempDir()
	code := GenerateCommand(GenerateOptions{
		SpecPath: writeSpec(t, orphanSpec),
		OutDir:   dir,
		SQLDir:   dir,
		Package:  "rbac",
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	})
	if code != 10 {
		t.Fatalf("expected exit 10, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "permissions_gen.go")); !os.IsNotExist(err) {
		t.Fatal("no artifacts may be written for an invalid spec")
	}
}
