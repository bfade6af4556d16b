package changelog

import "strings"

// DNValue returns the value half of the attr=value pair at position i in
// a comma-separated distinguished name (spec.md glossary "DN"). Position
// 0 is the leftmost (most specific) component, e.g. for
// "uuid=3ffc7b4c-..., ou=users, o=smartdc" position 0 yields the uuid.
// Returns "" if dn has fewer than i+1 components or the component has no
// "=".
func DNValue(dn string, i int) string {
	parts := strings.Split(dn, ",")
	if i < 0 || i >= len(parts) {
		return ""
	}
	component := strings.TrimSpace(parts[i])
	eq := strings.IndexByte(component, '=')
	if eq < 0 {
		return ""
	}
	return strings.TrimSpace(component[eq+1:])
}
