package vss

import (
	"testing"
	"time"
)

func rev(t time.Time, user string, version int) Revision {
	return Revision{Time: t, User: user, Version: version, Action: NewEdit("AAAAAAAA")}
}

func TestSortedRevisions_BucketsPreserveOrder(t *testing.T) {
	base := time.Date(2009, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSortedRevisions()
	s.Add(rev(base.Add(time.Minute), "bob", 1))
	s.Add(rev(base, "alice", 1))
	s.Add(rev(base, "alice", 2))
	s.Add(rev(base, "alice", 3))

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", s.Len())
	}
	if s.RevisionCount() != 4 {
		t.Fatalf("RevisionCount() = %d, expected 4", s.RevisionCount())
	}

	bucket, ok := s.Bucket(base)
	if !ok {
		t.Fatal("bucket at base not found")
	}
	for i, r := range bucket {
		if r.Version != i+1 {
			t.Errorf("bucket[%d].Version = %d, expected %d", i, r.Version, i+1)
		}
	}

	times := s.Times()
	if len(times) != 2 || !times[0].Equal(base) || !times[1].Equal(base.Add(time.Minute)) {
		t.Errorf("Times() = %v, expected ascending [base, base+1m]", times)
	}
}

func TestSortedRevisions_BeforeAfter(t *testing.T) {
	base := time.Date(2009, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSortedRevisions()
	for i := 0; i < 3; i++ {
		s.Add(rev(base.Add(time.Duration(i)*time.Second), "alice", i+1))
	}

	tests := []struct {
		name      string
		at        time.Time
		wantPrev  bool
		prev      time.Time
		wantNext  bool
		next      time.Time
	}{
		{name: "First", at: base, wantPrev: false, wantNext: true, next: base.Add(time.Second)},
		{name: "Middle", at: base.Add(time.Second), wantPrev: true, prev: base, wantNext: true, next: base.Add(2 * time.Second)},
		{name: "Last", at: base.Add(2 * time.Second), wantPrev: true, prev: base.Add(time.Second), wantNext: false},
		{name: "Between", at: base.Add(1500 * time.Millisecond), wantPrev: true, prev: base.Add(time.Second), wantNext: true, next: base.Add(2 * time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, _, ok := s.Before(tt.at)
			if ok != tt.wantPrev {
				t.Fatalf("Before() ok = %v, expected %v", ok, tt.wantPrev)
			}
			if ok && !prev.Equal(tt.prev) {
				t.Errorf("Before() = %v, expected %v", prev, tt.prev)
			}
			next, _, ok := s.After(tt.at)
			if ok != tt.wantNext {
				t.Fatalf("After() ok = %v, expected %v", ok, tt.wantNext)
			}
			if ok && !next.Equal(tt.next) {
				t.Errorf("After() = %v, expected %v", next, tt.next)
			}
		})
	}
}

func TestSortedRevisions_Replace(t *testing.T) {
	base := time.Date(2009, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSortedRevisions()
	s.Add(rev(base, "alice", 1))

	if !s.Replace(base, 0, rev(base, "alice", 1).WithComment("rewritten")) {
		t.Fatal("Replace() returned false")
	}
	bucket, _ := s.Bucket(base)
	if bucket[0].Comment != "rewritten" {
		t.Errorf("bucket[0].Comment = %q, expected rewritten", bucket[0].Comment)
	}

	if s.Replace(base, 5, Revision{}) {
		t.Error("Replace() out of range should return false")
	}
	if s.Replace(base.Add(time.Hour), 0, Revision{}) {
		t.Error("Replace() on missing bucket should return false")
	}
}

func TestSortedRevisions_EachStops(t *testing.T) {
	base := time.Date(2009, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSortedRevisions()
	for i := 0; i < 5; i++ {
		s.Add(rev(base.Add(time.Duration(i)*time.Hour), "alice", i))
	}

	visited := 0
	s.Each(func(_ time.Time, _ []Revision) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("Each visited %d buckets, expected 2", visited)
	}
}
