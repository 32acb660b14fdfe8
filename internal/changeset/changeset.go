package changeset

import (
	"time"

	"github.com/masmgr/vss2git-go/internal/vss"
)

// Changeset is a group of revisions presented to the target system as one commit.
// The Builder owns a Changeset until it is flushed; afterwards it must be treated as
// read-only.
type Changeset struct {
	User      string
	Time      time.Time // timestamp of the most recently appended revision
	Revisions []vss.Revision
	Comment   string

	targetFiles map[string]struct{}
}

func newChangeset(user string) *Changeset {
	return &Changeset{User: user, targetFiles: map[string]struct{}{}}
}

// Touches reports whether a conflicting action on the physical name was recorded.
func (c *Changeset) Touches(physicalName string) bool {
	_, ok := c.targetFiles[physicalName]
	return ok
}

// TargetFiles returns the number of physical names touched by conflicting actions.
func (c *Changeset) TargetFiles() int {
	return len(c.targetFiles)
}

// FirstTime returns the timestamp of the first revision.
func (c *Changeset) FirstTime() time.Time {
	if len(c.Revisions) == 0 {
		return c.Time
	}
	return c.Revisions[0].Time
}

// Duration returns the time spanned by the changeset's revisions.
func (c *Changeset) Duration() time.Duration {
	return c.Time.Sub(c.FirstTime())
}

// IsLabel reports whether the changeset consists of label revisions.
func (c *Changeset) IsLabel() bool {
	return len(c.Revisions) > 0 && c.Revisions[0].Action.Kind == vss.ActionLabel
}

func (c *Changeset) last() vss.Revision {
	return c.Revisions[len(c.Revisions)-1]
}

// lastCommented returns the most recent revision with a non-empty comment, falling
// back to the last revision.
func (c *Changeset) lastCommented() vss.Revision {
	for i := len(c.Revisions) - 1; i >= 0; i-- {
		if c.Revisions[i].Comment != "" {
			return c.Revisions[i]
		}
	}
	return c.last()
}

func (c *Changeset) add(rev vss.Revision, targetFile string, nonconflicting bool) {
	c.Time = rev.Time
	c.Revisions = append(c.Revisions, rev)
	if !nonconflicting {
		c.targetFiles[targetFile] = struct{}{}
	}
	c.appendComment(rev.Comment)
}

// appendComment builds up a newline-separated concatenation of unique comments.
func (c *Changeset) appendComment(comment string) {
	comment = trimComment(comment)
	if comment == "" {
		return
	}
	if c.Comment == "" {
		c.Comment = comment
	} else if !contains(c.Comment, comment) {
		c.Comment += "\n" + comment
	}
}
