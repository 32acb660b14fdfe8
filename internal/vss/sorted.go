package vss

import (
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
)

// bucket holds the revisions recorded at one exact instant, in source order.
type bucket struct {
	revisions []Revision
}

// SortedRevisions indexes revisions by timestamp. Each timestamp maps to a bucket whose
// insertion order is preserved, since it is causally significant (a Create precedes the
// revisions that reference it). Predecessor and successor lookups are O(log n).
type SortedRevisions struct {
	tree  *redblacktree.Tree
	count int
}

// NewSortedRevisions creates an empty index.
func NewSortedRevisions() *SortedRevisions {
	return &SortedRevisions{tree: redblacktree.NewWith(utils.TimeComparator)}
}

// Add appends rev to the bucket for its timestamp.
func (s *SortedRevisions) Add(rev Revision) {
	if v, found := s.tree.Get(rev.Time); found {
		b := v.(*bucket)
		b.revisions = append(b.revisions, rev)
	} else {
		s.tree.Put(rev.Time, &bucket{revisions: []Revision{rev}})
	}
	s.count++
}

// Len returns the number of buckets.
func (s *SortedRevisions) Len() int {
	return s.tree.Size()
}

// RevisionCount returns the number of revisions across all buckets.
func (s *SortedRevisions) RevisionCount() int {
	return s.count
}

// Bucket returns the revisions recorded at exactly t.
// The returned slice is shared with the index and must not be modified.
func (s *SortedRevisions) Bucket(t time.Time) ([]Revision, bool) {
	v, found := s.tree.Get(t)
	if !found {
		return nil, false
	}
	return v.(*bucket).revisions, true
}

// Before returns the bucket immediately preceding t.
func (s *SortedRevisions) Before(t time.Time) (time.Time, []Revision, bool) {
	node, found := s.tree.Floor(t.Add(-time.Nanosecond))
	if !found {
		return time.Time{}, nil, false
	}
	return node.Key.(time.Time), node.Value.(*bucket).revisions, true
}

// After returns the bucket immediately following t.
func (s *SortedRevisions) After(t time.Time) (time.Time, []Revision, bool) {
	node, found := s.tree.Ceiling(t.Add(time.Nanosecond))
	if !found {
		return time.Time{}, nil, false
	}
	return node.Key.(time.Time), node.Value.(*bucket).revisions, true
}

// Replace overwrites the revision at index i of the bucket at t.
func (s *SortedRevisions) Replace(t time.Time, i int, rev Revision) bool {
	v, found := s.tree.Get(t)
	if !found {
		return false
	}
	b := v.(*bucket)
	if i < 0 || i >= len(b.revisions) {
		return false
	}
	b.revisions[i] = rev
	return true
}

// Each calls fn for every bucket in ascending timestamp order until fn returns false.
func (s *SortedRevisions) Each(fn func(t time.Time, revisions []Revision) bool) {
	it := s.tree.Iterator()
	for it.Next() {
		if !fn(it.Key().(time.Time), it.Value().(*bucket).revisions) {
			return
		}
	}
}

// Times returns every bucket timestamp in ascending order.
func (s *SortedRevisions) Times() []time.Time {
	times := make([]time.Time, 0, s.tree.Size())
	for _, k := range s.tree.Keys() {
		times = append(times, k.(time.Time))
	}
	return times
}
