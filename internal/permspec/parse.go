package permspec

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	resourcePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	actionPattern   = regexp.MustCompile(`^[a-z][a-z_]*$`)
	headerPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*:$`)
)

// parseState tracks the current position inside the nested sections. It is
// confined to Parse; the returned Document is treated as immutable.
type parseState struct {
	section string
	role    int // index into Document.Roles, -1 when no role is open
	domain  string
}

// Parse scans the indentation-structured specification in a single pass.
// Sections nest as: top-level "permissions:" (and optionally "catalog:"),
// role names at two spaces, domain groupings at four, permission codes at
// six or eight. Text after '#' is ignored.
func Parse(r io.Reader) (Document, error) {
	var doc Document
	state := parseState{role: -1}
	roleIndex := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.ContainsRune(line, '\t') {
			return Document{}, fmt.Errorf("permspec: line %d: tabs are not allowed, use spaces", lineNo)
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		content := strings.TrimSpace(line)

		switch {
		case indent == 0:
			name, ok := sectionHeader(content)
			if !ok {
				return Document{}, fmt.Errorf("permspec: line %d: expected a section header, got %q", lineNo, content)
			}
			switch name {
			case "permissions", "catalog":
				state = parseState{section: name, role: -1}
			default:
				return Document{}, fmt.Errorf("permspec: line %d: unknown section %q", lineNo, name)
			}
		case state.section == "permissions" && indent == 2:
			name, ok := sectionHeader(content)
			if !ok {
				return Document{}, fmt.Errorf("permspec: line %d: expected a role header, got %q", lineNo, content)
			}
			idx, seen := roleIndex[name]
			if !seen {
				doc.Roles = append(doc.Roles, RoleGrant{Role: name})
				idx = len(doc.Roles) - 1
				roleIndex[name] = idx
			}
			state.role = idx
			state.domain = ""
		case state.section == "permissions" && indent == 4:
			name, ok := sectionHeader(content)
			if !ok {
				return Document{}, fmt.Errorf("permspec: line %d: expected a domain header, got %q", lineNo, content)
			}
			if state.role < 0 {
				return Document{}, fmt.Errorf("permspec: line %d: domain %q outside a role section", lineNo, name)
			}
			state.domain = name
		case state.section == "permissions" && (indent == 6 || indent == 8):
			if state.role < 0 || state.domain == "" {
				return Document{}, fmt.Errorf("permspec: line %d: permission outside a role/domain section", lineNo)
			}
			key, err := parseCode(content, lineNo)
			if err != nil {
				return Document{}, err
			}
			doc.Roles[state.role].Refs = append(doc.Roles[state.role].Refs, GrantRef{Key: key, Domain: state.domain, Line: lineNo})
		case state.section == "catalog" && indent == 2:
			name, ok := sectionHeader(content)
			if !ok {
				return Document{}, fmt.Errorf("permspec: line %d: expected a domain header, got %q", lineNo, content)
			}
			state.domain = name
			doc.HasCatalog = true
		case state.section == "catalog" && (indent == 4 || indent == 6):
			if state.domain == "" {
				return Document{}, fmt.Errorf("permspec: line %d: permission outside a domain section", lineNo)
			}
			key, err := parseCode(content, lineNo)
			if err != nil {
				return Document{}, err
			}
			doc.Definitions = append(doc.Definitions, GrantRef{Key: key, Domain: state.domain, Line: lineNo})
			doc.HasCatalog = true
		default:
			return Document{}, fmt.Errorf("permspec: line %d: unexpected indentation of %d spaces", lineNo, indent)
		}
	}
	if err := scanner.Err(); err != nil {
		return Document{}, fmt.Errorf("permspec: read specification: %w", err)
	}
	return doc, nil
}

func sectionHeader(content string) (string, bool) {
	if !headerPattern.MatchString(content) {
		return "", false
	}
	return strings.TrimSuffix(content, ":"), true
}

func parseCode(content string, lineNo int) (Key, error) {
	content = strings.TrimSpace(strings.TrimPrefix(content, "- "))
	resource, action, found := strings.Cut(content, ".")
	if !found {
		return Key{}, fmt.Errorf("permspec: line %d: permission %q is not in resource.action form", lineNo, content)
	}
	if !resourcePattern.MatchString(resource) {
		return Key{}, fmt.Errorf("permspec: line %d: invalid resource %q", lineNo, resource)
	}
	if !actionPattern.MatchString(action) {
		return Key{}, fmt.Errorf("permspec: line %d: invalid action %q", lineNo, action)
	}
	return Key{Resource: resource, Action: action}, nil
}
