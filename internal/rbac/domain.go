// Package rbac enforces the compiled permission catalog over HTTP. The
// generated tables in *_gen.go are produced by cmd/permgen from the
// permissions.spec document at the repository root.
package rbac

import "github.com/crewbase/crewbase/internal/authz"

// LoadCatalog builds the authorization catalog from the compiled role
// hierarchy table.
func LoadCatalog() *authz.Catalog {
	return authz.NewCatalog(RoleHierarchy)
}

// KnownRole reports whether code is part of the compiled role set.
func KnownRole(code string) bool {
	_, ok := RoleNames[code]
	return ok
}
