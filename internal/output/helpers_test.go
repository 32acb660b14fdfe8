package output

import (
	"os"
	"testing"
	"time"

	"github.com/masmgr/vss2git-go/internal/changeset"
	"github.com/masmgr/vss2git-go/internal/vss"
)

var reportTime = time.Date(2009, 3, 1, 12, 0, 0, 0, time.UTC)

// sampleReport holds two commits by alice and bob followed by a label.
func sampleReport() *ChangesetReport {
	project := vss.ItemName{LogicalName: "proj", PhysicalName: "PPPPPPPP", IsProject: true}
	fileA := vss.ItemName{LogicalName: "a.txt", PhysicalName: "AAAAAAAA"}
	fileB := vss.ItemName{LogicalName: "b.txt", PhysicalName: "BBBBBBBB"}

	return &ChangesetReport{
		SourcePath:  "/dumps/vss.json",
		GeneratedAt: reportTime.Add(time.Hour),
		Elapsed:     1500 * time.Millisecond,
		Changesets: []*changeset.Changeset{
			{
				User:    "alice",
				Time:    reportTime.Add(time.Second),
				Comment: "initial import\nsecond line",
				Revisions: []vss.Revision{
					{Time: reportTime, User: "alice", Item: project, Path: "$/proj", Version: 2, Comment: "initial import", Action: vss.NewAdd(fileA)},
					{Time: reportTime.Add(time.Second), User: "alice", Item: project, Path: "$/proj", Version: 3, Action: vss.NewAdd(fileB)},
				},
			},
			{
				User:    "bob",
				Time:    reportTime.Add(time.Hour),
				Comment: "fix | escape",
				Revisions: []vss.Revision{
					{Time: reportTime.Add(time.Hour), User: "bob", Item: fileA, Path: "$/proj/a.txt", Version: 2, Comment: "fix | escape", Action: vss.NewEdit("AAAAAAAA")},
				},
			},
			{
				User: "alice",
				Time: reportTime.Add(2 * time.Hour),
				Revisions: []vss.Revision{
					{Time: reportTime.Add(2 * time.Hour), User: "alice", Item: project, Path: "$/proj", Version: 4, Action: vss.NewLabel("v1")},
				},
			},
		},
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	return string(data)
}
