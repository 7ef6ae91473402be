// Command permgen compiles permissions.spec into the Go enforcement tables
// and the SQL seed. Usage:
//
//	permgen generate [-spec permissions.spec] [-out internal/rbac] [-sql scripts/seed] [-pkg rbac]
//	permgen validate [-spec permissions.spec] [-json]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/crewbase/crewbase/cmd/permgen/cli"
)

func main() {
	args := os.Args[1:]
	command := "generate"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "generate":
		fs := flag.NewFlagSet("generate", flag.ExitOnError)
		spec := fs.String("spec", "permissions.spec", "path to the permission specification")
		out := fs.String("out", "internal/rbac", "output directory for generated Go files")
		sqlDir := fs.String("sql", "scripts/seed", "output directory for the SQL seed")
		pkg := fs.String("pkg", "rbac", "package name of the generated Go files")
		_ = fs.Parse(args)
		os.Exit(cli.GenerateCommand(cli.GenerateOptions{
			SpecPath: *spec,
			OutDir:   *out,
			SQLDir:   *sqlDir,
			Package:  *pkg,
		}))
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ExitOnError)
		spec := fs.String("spec", "permissions.spec", "path to the permission specification")
		jsonOut := fs.Bool("json", false, "emit the report as JSON")
		_ = fs.Parse(args)
		os.Exit(cli.ValidateCommand(cli.ValidateOptions{
			SpecPath:   *spec,
			JSONOutput: *jsonOut,
		}))
	default:
		fmt.Fprintf(os.Stderr, "permgen: unknown command %q (expected generate or validate)\n", command)
		os.Exit(2)
	}
}
