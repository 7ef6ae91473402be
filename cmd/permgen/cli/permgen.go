// Package cli implements the permgen subcommands: generate compiles the
// permission specification into the enforcement artifacts, validate runs
// the standalone validation pass.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/crewbase/crewbase/internal/permspec"
)

// GenerateOptions defines available flags for the generate command.
type GenerateOptions struct {
	SpecPath string
	OutDir   string
	SQLDir   string
	Package  string
	Stdout   io.Writer
	Stderr   io.Writer
}

// ValidateOptions defines available flags for the validate command.
type ValidateOptions struct {
	SpecPath   string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// ValidateSummary describes the JSON response for validate.
type ValidateSummary struct {
	OK       bool               `json:"ok"`
	Errors   []permspec.Finding `json:"errors"`
	Warnings []permspec.Finding `json:"warnings"`
	Infos    []permspec.Finding `json:"infos"`
}

// GenerateCommand compiles the specification and writes the artifacts.
// Validation errors abort generation with exit code 10.
func GenerateCommand(opts GenerateOptions) int {
	stdout, stderr := outputs(opts.Stdout, opts.Stderr)

	doc, catalog, code := load(opts.SpecPath, stderr)
	if code != 0 {
		return code
	}
	report := permspec.Validate(doc)
	renderReportHuman(stderr, report)
	if !report.OK() {
		return 10
	}

	emitter := permspec.Emitter{Package: opts.Package}
	artifacts := []struct {
		path string
		data []byte
	}{
		{filepath.Join(opts.OutDir, "permissions_gen.go"), emitter.PermissionsFile(catalog)},
		{filepath.Join(opts.OutDir, "roles_gen.go"), emitter.RolesFile(catalog)},
		{filepath.Join(opts.OutDir, "guards_gen.go"), emitter.GuardsFile(catalog)},
		{filepath.Join(opts.SQLDir, "seed_rbac.sql"), emitter.SeedSQL(catalog)},
	}
	for _, artifact := range artifacts {
		if err := os.WriteFile(artifact.path, artifact.data, 0o644); err != nil {
			_, _ = fmt.Fprintf(stderr, "permgen: write %s: %v\n", artifact.path, err)
			return 1
		}
		_, _ = fmt.Fprintf(stdout, "wrote %s\n", artifact.path)
	}
	return 0
}

// ValidateCommand runs the validation pass and prints the outcome.
// Exits 0 when the specification is valid, 1 otherwise.
func ValidateCommand(opts ValidateOptions) int {
	stdout, stderr := outputs(opts.Stdout, opts.Stderr)

	doc, _, code := load(opts.SpecPath, stderr)
	if code != 0 {
		return code
	}
	report := permspec.Validate(doc)
	if opts.JSONOutput {
		summary := ValidateSummary{
			OK:       report.OK(),
			Errors:   emptyWhenNil(report.Errors),
			Warnings: emptyWhenNil(report.Warnings),
			Infos:    emptyWhenNil(report.Infos),
		}
		if err := json.NewEncoder(stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(stderr, "permgen: encode json: %v\n", err)
			return 1
		}
	} else {
		renderReportHuman(stdout, report)
		if report.OK() {
			_, _ = fmt.Fprintln(stdout, "specification is valid")
		}
	}
	if !report.OK() {
		return 1
	}
	return 0
}

func load(specPath string, stderr io.Writer) (permspec.Document, permspec.Catalog, int) {
	f, err := os.Open(specPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "permgen: open specification: %v\n", err)
		return permspec.Document{}, permspec.Catalog{}, 1
	}
	defer f.Close()
	doc, err := permspec.Parse(f)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "permgen: %v\n", err)
		return permspec.Document{}, permspec.Catalog{}, 1
	}
	return doc, permspec.Build(doc), 0
}

func renderReportHuman(w io.Writer, report permspec.Report) {
	print := func(severity string, findings []permspec.Finding) {
		for _, f := range findings {
			if f.Line > 0 {
				_, _ = fmt.Fprintf(w, "%s: line %d: %s (%s)\n", severity, f.Line, f.Message, f.Code)
				continue
			}
			_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", severity, f.Message, f.Code)
		}
	}
	print("error", report.Errors)
	print("warning", report.Warnings)
	print("info", report.Infos)
}

func outputs(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}

func emptyWhenNil(findings []permspec.Finding) []permspec.Finding {
	if findings == nil {
		return []permspec.Finding{}
	}
	return findings
}
