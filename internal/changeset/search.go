package changeset

import (
	"time"

	"github.com/masmgr/vss2git-go/internal/vss"
)

// correspondingWindow bounds the search into neighbouring buckets to temporally
// adjacent activity, so unrelated same-named items are not matched.
const correspondingWindow = 15 * time.Minute

// findCorrespondingAction looks for the revision of the given kind on the same physical
// target as rev that carries a comment. It searches rev's own bucket from last to first,
// then the preceding bucket (last to first) and the following bucket (first to last)
// when they lie within correspondingWindow of rev.
func findCorrespondingAction(sorted *vss.SortedRevisions, rev vss.Revision, kind vss.ActionKind) (vss.Revision, bool) {
	if !isSearchable(rev) {
		return vss.Revision{}, false
	}
	target, ok := rev.Action.Named()
	if !ok || target.PhysicalName == "" {
		return vss.Revision{}, false
	}

	matches := func(candidate vss.Revision) bool {
		if !isSearchable(candidate) || candidate.Action.Kind != kind || candidate.Comment == "" {
			return false
		}
		name, ok := candidate.Action.Named()
		return ok && name.PhysicalName == target.PhysicalName
	}

	if bucket, ok := sorted.Bucket(rev.Time); ok {
		if found, ok := scanBackward(bucket, matches); ok {
			return found, true
		}
	}

	if prevTime, bucket, ok := sorted.Before(rev.Time); ok && rev.Time.Sub(prevTime) < correspondingWindow {
		if found, ok := scanBackward(bucket, matches); ok {
			return found, true
		}
	}

	if nextTime, bucket, ok := sorted.After(rev.Time); ok && nextTime.Sub(rev.Time) < correspondingWindow {
		if found, ok := scanForward(bucket, matches); ok {
			return found, true
		}
	}

	return vss.Revision{}, false
}

func scanBackward(bucket []vss.Revision, matches func(vss.Revision) bool) (vss.Revision, bool) {
	for i := len(bucket) - 1; i >= 0; i-- {
		if matches(bucket[i]) {
			return bucket[i], true
		}
	}
	return vss.Revision{}, false
}

func scanForward(bucket []vss.Revision, matches func(vss.Revision) bool) (vss.Revision, bool) {
	for _, r := range bucket {
		if matches(r) {
			return r, true
		}
	}
	return vss.Revision{}, false
}
