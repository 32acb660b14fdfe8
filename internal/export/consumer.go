// Package export hands built changesets to a target version control system.
package export

import (
	"context"

	"github.com/masmgr/vss2git-go/internal/changeset"
)

// Stats summarises an export run.
type Stats struct {
	Commits     int
	Tags        int
	SkippedTags int
	Canceled    bool
}

// Consumer receives changesets in flush order.
type Consumer interface {
	Export(ctx context.Context, changesets []*changeset.Changeset) (Stats, error)
}

// Compile-time interface conformance check.
var _ Consumer = (*GitExporter)(nil)
