package changeset

import (
	"testing"
	"time"

	"github.com/masmgr/vss2git-go/internal/vss"
)

func TestFindCorrespondingAction(t *testing.T) {
	add := projectRev(t0, "alice", vss.NewAdd(fileA), "")

	tests := []struct {
		name        string
		others      []vss.Revision
		wantFound   bool
		wantComment string
	}{
		{
			name:        "Same bucket",
			others:      []vss.Revision{projectRev(t0, "alice", vss.NewCreate(fileA), "init")},
			wantFound:   true,
			wantComment: "init",
		},
		{
			name: "Most recent match in bucket wins",
			others: []vss.Revision{
				projectRev(t0, "alice", vss.NewCreate(fileA), "first"),
				projectRev(t0, "alice", vss.NewCreate(fileA), "second"),
			},
			wantFound:   true,
			wantComment: "second",
		},
		{
			name:        "Create without comment is ignored",
			others:      []vss.Revision{projectRev(t0, "alice", vss.NewCreate(fileA), "")},
			wantFound:   false,
		},
		{
			name:        "Different physical name is ignored",
			others:      []vss.Revision{projectRev(t0, "alice", vss.NewCreate(fileB), "other")},
			wantFound:   false,
		},
		{
			name:        "Different kind is ignored",
			others:      []vss.Revision{projectRev(t0, "alice", vss.NewDelete(fileA), "gone")},
			wantFound:   false,
		},
		{
			name:        "Previous bucket within window",
			others:      []vss.Revision{projectRev(t0.Add(-14*time.Minute), "alice", vss.NewCreate(fileA), "earlier")},
			wantFound:   true,
			wantComment: "earlier",
		},
		{
			name:        "Previous bucket outside window",
			others:      []vss.Revision{projectRev(t0.Add(-16*time.Minute), "alice", vss.NewCreate(fileA), "earlier")},
			wantFound:   false,
		},
		{
			name:        "Next bucket within window",
			others:      []vss.Revision{projectRev(t0.Add(time.Minute), "alice", vss.NewCreate(fileA), "later")},
			wantFound:   true,
			wantComment: "later",
		},
		{
			name:        "Next bucket outside window",
			others:      []vss.Revision{projectRev(t0.Add(15*time.Minute), "alice", vss.NewCreate(fileA), "later")},
			wantFound:   false,
		},
		{
			name: "Only adjacent buckets are searched",
			others: []vss.Revision{
				projectRev(t0.Add(-2*time.Minute), "alice", vss.NewCreate(fileA), "two away"),
				projectRev(t0.Add(-time.Minute), "alice", vss.NewEdit("ZZZZZZZZ"), ""),
			},
			wantFound: false,
		},
		{
			name: "Previous bucket preferred over next",
			others: []vss.Revision{
				projectRev(t0.Add(-time.Minute), "alice", vss.NewCreate(fileA), "before"),
				projectRev(t0.Add(time.Minute), "alice", vss.NewCreate(fileA), "after"),
			},
			wantFound:   true,
			wantComment: "before",
		},
		{
			name: "Next bucket searched when previous has no match",
			others: []vss.Revision{
				projectRev(t0.Add(-time.Minute), "alice", vss.NewCreate(fileB), "unrelated"),
				projectRev(t0.Add(time.Minute), "alice", vss.NewCreate(fileA), "after"),
			},
			wantFound:   true,
			wantComment: "after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := vss.NewMockSource(append(tt.others, add)...)
			found, ok := findCorrespondingAction(src.SortedRevisions(), add, vss.ActionCreate)
			if ok != tt.wantFound {
				t.Fatalf("found = %v, expected %v", ok, tt.wantFound)
			}
			if ok && found.Comment != tt.wantComment {
				t.Errorf("comment = %q, expected %q", found.Comment, tt.wantComment)
			}
		})
	}
}

func TestFindCorrespondingAction_UnsearchableRevisions(t *testing.T) {
	create := projectRev(t0, "alice", vss.NewCreate(fileA), "init")

	tests := []struct {
		name string
		rev  vss.Revision
	}{
		{name: "Edit", rev: edit(t0, "alice", fileA, "")},
		{name: "Label", rev: projectRev(t0, "alice", vss.NewLabel("v1"), "")},
		{name: "Unresolvable target", rev: projectRev(t0, "alice", vss.NewAdd(vss.ItemName{LogicalName: "x"}), "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := vss.NewMockSource(create, tt.rev)
			if _, ok := findCorrespondingAction(src.SortedRevisions(), tt.rev, vss.ActionCreate); ok {
				t.Error("expected no match")
			}
		})
	}
}
