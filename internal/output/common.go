package output

import (
	"io"
	"os"
	"strings"

	"github.com/masmgr/vss2git-go/internal/changeset"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// Summary aggregates a list of changesets.
type Summary struct {
	Changesets   int
	Revisions    int
	Labels       int
	Users        int
	MaxRevisions int
}

func summarize(changesets []*changeset.Changeset) Summary {
	users := map[string]struct{}{}
	s := Summary{Changesets: len(changesets)}
	for _, cs := range changesets {
		n := len(cs.Revisions)
		s.Revisions += n
		if n > s.MaxRevisions {
			s.MaxRevisions = n
		}
		if cs.IsLabel() {
			s.Labels++
		}
		users[cs.User] = struct{}{}
	}
	s.Users = len(users)
	return s
}

func changesetKind(cs *changeset.Changeset) string {
	if cs.IsLabel() {
		return "label"
	}
	return "commit"
}

// firstLine returns the first line of a possibly multi-line comment.
func firstLine(comment string) string {
	if idx := strings.IndexByte(comment, '\n'); idx != -1 {
		return comment[:idx]
	}
	return comment
}

// labelNames joins the label names of a label changeset.
func labelNames(cs *changeset.Changeset) string {
	names := make([]string, 0, len(cs.Revisions))
	for _, r := range cs.Revisions {
		names = append(names, r.Action.Label())
	}
	return strings.Join(names, ", ")
}

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}
