package export

import (
	"regexp"
	"strings"
)

var (
	invalidRefChars = regexp.MustCompile(`[\x00-\x20\x7f~^:?*\[\\]+`)
	repeatedDots    = regexp.MustCompile(`\.{2,}`)
	repeatedSlashes = regexp.MustCompile(`/{2,}`)
)

// sanitizeTagName turns a VSS label into a name git accepts under refs/tags/.
// It returns "" when nothing usable remains.
func sanitizeTagName(label string) string {
	name := invalidRefChars.ReplaceAllString(strings.TrimSpace(label), "_")
	name = strings.ReplaceAll(name, "@{", "_")
	name = repeatedDots.ReplaceAllString(name, ".")
	name = repeatedSlashes.ReplaceAllString(name, "/")

	parts := strings.Split(name, "/")
	kept := parts[:0]
	for _, p := range parts {
		p = strings.TrimLeft(p, ".")
		p = strings.TrimSuffix(p, ".lock")
		if p != "" {
			kept = append(kept, p)
		}
	}
	name = strings.Join(kept, "/")

	name = strings.TrimRight(name, ".")
	if name == "@" {
		return ""
	}
	return name
}
