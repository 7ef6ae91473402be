package permspec

// Catalog holds the deduplicated permission catalog and role matrix derived
// from a Document. All slices preserve first-seen order, which keeps the
// emitted artifacts byte-identical across runs.
type Catalog struct {
	Permissions []Permission
	Domains     []string
	Roles       []string

	grants     map[string][]string
	defined    map[Key]int
	referenced map[Key]int
	orphaned   []GrantRef
}

// Build derives the catalog from a parsed document. When the document carries
// an explicit catalog section, role references must resolve against it;
// otherwise the first occurrence of a (resource, action) pair defines the
// canonical entry and later occurrences are reference-only.
func Build(doc Document) Catalog {
	c := Catalog{
		grants:     make(map[string][]string),
		defined:    make(map[Key]int),
		referenced: make(map[Key]int),
	}
	domainSeen := make(map[string]struct{})

	define := func(ref GrantRef) {
		if _, ok := c.defined[ref.Key]; ok {
			return
		}
		c.defined[ref.Key] = len(c.Permissions)
		c.Permissions = append(c.Permissions, Permission{
			Key:         ref.Key,
			Domain:      ref.Domain,
			Name:        displayName(ref.Key),
			Description: displayDescription(ref.Key),
		})
		if _, ok := domainSeen[ref.Domain]; !ok {
			domainSeen[ref.Domain] = struct{}{}
			c.Domains = append(c.Domains, ref.Domain)
		}
	}

	for _, ref := range doc.Definitions {
		define(ref)
	}

	for _, role := range doc.Roles {
		c.Roles = append(c.Roles, role.Role)
		granted := make(map[Key]struct{}, len(role.Refs))
		for _, ref := range role.Refs {
			if _, ok := c.defined[ref.Key]; !ok {
				if doc.HasCatalog {
					c.orphaned = append(c.orphaned, ref)
					continue
				}
				define(ref)
			}
			c.referenced[ref.Key]++
			if _, dup := granted[ref.Key]; dup {
				continue
			}
			granted[ref.Key] = struct{}{}
			c.grants[role.Role] = append(c.grants[role.Role], ref.Key.Code())
		}
	}
	return c
}

// PermissionsFor returns the permission codes granted to a role. The admin
// role always receives the complete catalog so it can never fall out of sync
// as the catalog grows.
func (c Catalog) PermissionsFor(role string) []string {
	if role == AdminRole {
		codes := make([]string, len(c.Permissions))
		for i, p := range c.Permissions {
			codes[i] = p.Key.Code()
		}
		return codes
	}
	return append([]string(nil), c.grants[role]...)
}

// PermissionsIn returns the catalog entries belonging to a domain.
func (c Catalog) PermissionsIn(domain string) []Permission {
	var perms []Permission
	for _, p := range c.Permissions {
		if p.Domain == domain {
			perms = append(perms, p)
		}
	}
	return perms
}

// Orphaned lists role references that never resolved to a defined permission.
func (c Catalog) Orphaned() []GrantRef {
	return c.orphaned
}

// Unused lists defined permissions no role references.
func (c Catalog) Unused() []Permission {
	var unused []Permission
	for _, p := range c.Permissions {
		if c.referenced[p.Key] == 0 {
			unused = append(unused, p)
		}
	}
	return unused
}
