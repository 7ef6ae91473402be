package permspec

import (
	"fmt"
	"go/format"
	"strings"
)

// Emitter renders the compiled catalog into source artifacts. Output is a
// pure function of the catalog: identical input yields byte-identical files.
type Emitter struct {
	// Package is the Go package name of the generated modules.
	Package string
}

const generatedHeader = "// Code generated by permgen. DO NOT EDIT.\n\n"

// PermissionsFile renders the permission catalog module.
func (e Emitter) PermissionsFile(c Catalog) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", e.pkg())

	b.WriteString("// PermissionInfo describes one entry of the permission catalog.\n")
	b.WriteString("type PermissionInfo struct {\n")
	b.WriteString("\tCode        string\n")
	b.WriteString("\tName        string\n")
	b.WriteString("\tDescription string\n")
	b.WriteString("\tDomain      string\n")
	b.WriteString("\tResource    string\n")
	b.WriteString("\tAction      string\n")
	b.WriteString("}\n\n")

	b.WriteString("const (\n")
	for i, domain := range c.Domains {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\t// Domain: %s\n", domain)
		for _, p := range c.PermissionsIn(domain) {
			fmt.Fprintf(&b, "\t%s = %q\n", permSymbol(p.Key), p.Key.Code())
		}
	}
	b.WriteString(")\n\n")

	b.WriteString("// PermissionCatalog lists every permission in specification order.\n")
	b.WriteString("var PermissionCatalog = []PermissionInfo{\n")
	for _, p := range c.Permissions {
		fmt.Fprintf(&b, "\t{Code: %s, Name: %q, Description: %q, Domain: %q, Resource: %q, Action: %q},\n",
			permSymbol(p.Key), p.Name, p.Description, p.Domain, p.Key.Resource, p.Key.Action)
	}
	b.WriteString("}\n\n")

	b.WriteString("// AllPermissions returns the codes of every catalog permission.\n")
	b.WriteString("func AllPermissions() []string {\n")
	b.WriteString("\tcodes := make([]string, len(PermissionCatalog))\n")
	b.WriteString("\tfor i, p := range PermissionCatalog {\n")
	b.WriteString("\t\tcodes[i] = p.Code\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn codes\n")
	b.WriteString("}\n")
	return gofmtSource(b.String())
}

// RolesFile renders role constants, descriptions and the role matrix.
func (e Emitter) RolesFile(c Catalog) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", e.pkg())

	b.WriteString("const (\n")
	for _, info := range RoleVocabulary {
		fmt.Fprintf(&b, "\t%s = %q\n", roleSymbol(info.Code), info.Code)
	}
	b.WriteString(")\n\n")

	b.WriteString("// RoleNames maps role code to its display name.\n")
	b.WriteString("var RoleNames = map[string]string{\n")
	for _, info := range RoleVocabulary {
		fmt.Fprintf(&b, "\t%s: %q,\n", roleSymbol(info.Code), info.Name)
	}
	b.WriteString("}\n\n")

	b.WriteString("// RoleDescriptions maps role code to its description.\n")
	b.WriteString("var RoleDescriptions = map[string]string{\n")
	for _, info := range RoleVocabulary {
		fmt.Fprintf(&b, "\t%s: %q,\n", roleSymbol(info.Code), info.Description)
	}
	b.WriteString("}\n\n")

	b.WriteString("// rolePermissions holds explicit grants for every role except ADMIN,\n")
	b.WriteString("// which is always granted the full catalog.\n")
	b.WriteString("var rolePermissions = map[string][]string{\n")
	for _, role := range c.Roles {
		if role == AdminRole {
			continue
		}
		fmt.Fprintf(&b, "\t%s: {\n", roleSymbol(role))
		for _, code := range c.PermissionsFor(role) {
			fmt.Fprintf(&b, "\t\t%q,\n", code)
		}
		b.WriteString("\t},\n")
	}
	b.WriteString("}\n\n")

	b.WriteString("// PermissionsForRole returns the permission codes granted to a role.\n")
	b.WriteString("// ADMIN always receives the complete catalog so it can never fall\n")
	b.WriteString("// behind newly added permissions.\n")
	b.WriteString("func PermissionsForRole(role string) []string {\n")
	fmt.Fprintf(&b, "\tif role == %s {\n", roleSymbol(AdminRole))
	b.WriteString("\t\treturn AllPermissions()\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn append([]string(nil), rolePermissions[role]...)\n")
	b.WriteString("}\n")
	return gofmtSource(b.String())
}

// GuardsFile renders the hierarchy table behind the parameterized guard.
// One table plus one guard replaces per-role generated functions.
func (e Emitter) GuardsFile(c Catalog) []byte {
	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", e.pkg())

	b.WriteString("// RoleHierarchy maps role code to its hierarchy level.\n")
	b.WriteString("// Higher levels carry more privilege.\n")
	b.WriteString("var RoleHierarchy = map[string]int{\n")
	for _, info := range RoleVocabulary {
		fmt.Fprintf(&b, "\t%s: %d,\n", roleSymbol(info.Code), info.Level)
	}
	b.WriteString("}\n\n")

	b.WriteString("// MinLevelForRole returns the hierarchy level required to act as role.\n")
	b.WriteString("// Unknown roles map to zero, the least privileged level.\n")
	b.WriteString("func MinLevelForRole(role string) int {\n")
	b.WriteString("\treturn RoleHierarchy[role]\n")
	b.WriteString("}\n")
	return gofmtSource(b.String())
}

// seedLink is the structured composite key behind one role-permission seed
// row; it is formatted only here, at the serialization boundary.
type seedLink struct {
	RoleCode string
	Key      Key
}

// SeedSQL renders the idempotent persistence seed. Permissions are global;
// roles and role-permission links are parameterized by tenant.
func (e Emitter) SeedSQL(c Catalog) []byte {
	var b strings.Builder
	b.WriteString("-- Code generated by permgen. DO NOT EDIT.\n")
	b.WriteString("-- Idempotent RBAC seed. Apply with: psql -v tenant_id=<uuid> -f seed_rbac.sql\n\n")

	b.WriteString("INSERT INTO permissions (code, name, description, domain, resource, action)\nVALUES\n")
	for i, p := range c.Permissions {
		sep := ","
		if i == len(c.Permissions)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    (%s, %s, %s, %s, %s, %s)%s\n",
			sqlQuote(p.Key.Code()), sqlQuote(p.Name), sqlQuote(p.Description),
			sqlQuote(p.Domain), sqlQuote(p.Key.Resource), sqlQuote(p.Key.Action), sep)
	}
	b.WriteString("ON CONFLICT (code) DO NOTHING;\n\n")

	b.WriteString("INSERT INTO roles (tenant_id, code, name, description, role_type, priority)\nVALUES\n")
	for i, info := range RoleVocabulary {
		sep := ","
		if i == len(RoleVocabulary)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    (:'tenant_id', %s, %s, %s, 'SYSTEM', %d)%s\n",
			sqlQuote(info.Code), sqlQuote(info.Name), sqlQuote(info.Description), info.Level, sep)
	}
	b.WriteString("ON CONFLICT (tenant_id, code) DO NOTHING;\n\n")

	b.WriteString("-- ADMIN links follow the live catalog instead of an explicit list.\n")
	b.WriteString("INSERT INTO role_permissions (tenant_id, role_code, permission_code)\n")
	fmt.Fprintf(&b, "SELECT :'tenant_id', %s, code FROM permissions\n", sqlQuote(AdminRole))
	b.WriteString("ON CONFLICT (tenant_id, role_code, permission_code) DO NOTHING;\n")

	var links []seedLink
	for _, role := range c.Roles {
		if role == AdminRole {
			continue
		}
		for _, code := range c.PermissionsFor(role) {
			resource, action, _ := strings.Cut(code, ".")
			links = append(links, seedLink{RoleCode: role, Key: Key{Resource: resource, Action: action}})
		}
	}
	if len(links) > 0 {
		b.WriteString("\nINSERT INTO role_permissions (tenant_id, role_code, permission_code)\nVALUES\n")
		for i, link := range links {
			sep := ","
			if i == len(links)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "    (:'tenant_id', %s, %s)%s\n", sqlQuote(link.RoleCode), sqlQuote(link.Key.Code()), sep)
		}
		b.WriteString("ON CONFLICT (tenant_id, role_code, permission_code) DO NOTHING;\n")
	}
	return []byte(b.String())
}

// gofmtSource normalizes a rendered Go module to canonical gofmt form.
// Rendered source that fails to parse is a bug in the emitter itself.
func gofmtSource(src string) []byte {
	out, err := format.Source([]byte(src))
	if err != nil {
		panic(fmt.Sprintf("permspec: rendered module does not parse: %v", err))
	}
	return out
}

func (e Emitter) pkg() string {
	if e.Package == "" {
		return "rbac"
	}
	return e.Package
}

// permSymbol derives the Go constant name for a permission key,
// e.g. {Project soft_delete} -> PermProjectSoftDelete.
func permSymbol(k Key) string {
	return "Perm" + goSymbol(k.Resource) + goSymbol(k.Action)
}

// roleSymbol derives the Go constant name for a role code,
// e.g. PROJECT_MANAGER -> RoleProjectManager.
func roleSymbol(code string) string {
	return "Role" + goSymbol(code)
}

func goSymbol(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		b.WriteString(strings.ToUpper(lower[:1]) + lower[1:])
	}
	return b.String()
}

func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
