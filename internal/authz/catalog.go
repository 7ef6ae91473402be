package authz

// Catalog supplies role hierarchy levels to the engine. It is loaded from the
// compiled role tables; the engine never fetches roles itself.
type Catalog struct {
	levels map[string]int
}

// NewCatalog builds a catalog from a role code to hierarchy level table.
func NewCatalog(levels map[string]int) *Catalog {
	copied := make(map[string]int, len(levels))
	for code, level := range levels {
		copied[normalizeRole(code)] = level
	}
	return &Catalog{levels: copied}
}

// LevelFor returns the hierarchy level of a role. Unknown roles map to zero,
// the least privileged level.
func (c *Catalog) LevelFor(role string) int {
	if c == nil {
		return 0
	}
	return c.levels[normalizeRole(role)]
}

// MaxLevel returns the highest hierarchy level among the given roles.
func (c *Catalog) MaxLevel(roles []string) int {
	max := 0
	for _, role := range roles {
		if level := c.LevelFor(role); level > max {
			max = level
		}
	}
	return max
}
