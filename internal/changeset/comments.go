package changeset

import (
	"strings"

	"github.com/masmgr/vss2git-go/internal/vss"
)

func trimComment(comment string) string {
	return strings.TrimSpace(comment)
}

func contains(accumulated, comment string) bool {
	return strings.Contains(accumulated, comment)
}

// sameComment compares trimmed comments; two absent comments are equal.
func sameComment(a, b vss.Revision) bool {
	return trimComment(a.Comment) == trimComment(b.Comment)
}

func isLabel(r vss.Revision) bool {
	return r.Action.Kind == vss.ActionLabel
}

// isSearchable reports whether a revision may take part in a corresponding-action
// search: edits and labels never carry a named target.
func isSearchable(r vss.Revision) bool {
	return r.Action.Kind != vss.ActionEdit && r.Action.Kind != vss.ActionLabel
}
