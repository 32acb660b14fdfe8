package changeset

import "time"

// DefaultUnnamedLabelFormat names empty labels. The first verb receives the label's
// timestamp formatted with UnnamedLabelTimeLayout, the second a per-build counter.
const DefaultUnnamedLabelFormat = "Unnamed_%[1]s_%[2]d"

// UnnamedLabelTimeLayout is the sortable timestamp layout used in generated label names.
const UnnamedLabelTimeLayout = "2006-01-02_150405"

// Options controls the grouping heuristics.
type Options struct {
	// AnyCommentThreshold is the gap after which comments are compared at all.
	AnyCommentThreshold time.Duration
	// EmptyCommentThreshold is reserved for tie-breaking revisions without comments.
	// It is carried through configuration but does not affect grouping.
	EmptyCommentThreshold time.Duration
	// SameCommentThreshold is the gap within which revisions with the same comment merge.
	SameCommentThreshold time.Duration
	// ExcludeAllDestroyedItems drops revisions on destroyed items that no longer exist.
	ExcludeAllDestroyedItems bool
	// UnnamedLabelFormat is a fmt format string; see DefaultUnnamedLabelFormat.
	UnnamedLabelFormat string
}

// DefaultOptions returns the default grouping heuristics.
func DefaultOptions() Options {
	return Options{
		AnyCommentThreshold:   0,
		EmptyCommentThreshold: 30 * time.Second,
		SameCommentThreshold:  10 * time.Minute,
		UnnamedLabelFormat:    DefaultUnnamedLabelFormat,
	}
}

// exceeds applies a threshold with a one-second grace when it is configured as zero.
func exceeds(gap, threshold time.Duration) bool {
	return zeroGrace(threshold)+gap > threshold
}

// within reports whether gap stays under threshold, with the same zero grace.
func within(gap, threshold time.Duration) bool {
	return zeroGrace(threshold)+gap < threshold
}

func zeroGrace(threshold time.Duration) time.Duration {
	if threshold == 0 {
		return time.Second
	}
	return 0
}
