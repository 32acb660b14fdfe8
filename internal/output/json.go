package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/masmgr/vss2git-go/internal/changeset"
	"github.com/masmgr/vss2git-go/internal/vss"
)

// JSONWriter writes changeset reports as JSON.
type JSONWriter struct{}

// JSONReport is the JSON output structure for a changeset build.
type JSONReport struct {
	Source          string          `json:"source"`
	GeneratedAt     string          `json:"generatedAt"`
	ElapsedSeconds  float64         `json:"elapsedSeconds"`
	Canceled        bool            `json:"canceled"`
	TotalChangesets int             `json:"totalChangesets"`
	TotalRevisions  int             `json:"totalRevisions"`
	Changesets      []JSONChangeset `json:"changesets"`
}

// JSONChangeset is the JSON output structure for a single changeset.
type JSONChangeset struct {
	Index     int            `json:"index"`
	User      string         `json:"user"`
	Start     string         `json:"start"`
	End       string         `json:"end"`
	Kind      string         `json:"kind"`
	Comment   string         `json:"comment,omitempty"`
	Files     int            `json:"files"`
	Revisions []JSONRevision `json:"revisions"`
}

// JSONRevision is the JSON output structure for a revision inside a changeset.
type JSONRevision struct {
	Time    string `json:"time"`
	Path    string `json:"path"`
	Item    string `json:"item"`
	Version int    `json:"version"`
	Action  string `json:"action"`
	Comment string `json:"comment,omitempty"`
}

// Write outputs the changeset report as JSON.
func (w *JSONWriter) Write(report *ChangesetReport, options OutputOptions) error {
	changesets := limitTop(report.Changesets, options.Top)
	summary := summarize(report.Changesets)

	items := make([]JSONChangeset, len(changesets))
	for i, cs := range changesets {
		items[i] = toJSONChangeset(i+1, cs)
	}

	jsonReport := JSONReport{
		Source:          report.SourcePath,
		GeneratedAt:     report.GeneratedAt.Format(time.RFC3339),
		ElapsedSeconds:  report.Elapsed.Seconds(),
		Canceled:        report.Canceled,
		TotalChangesets: summary.Changesets,
		TotalRevisions:  summary.Revisions,
		Changesets:      items,
	}

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return writeJSON(out, jsonReport)
}

func toJSONChangeset(index int, cs *changeset.Changeset) JSONChangeset {
	revs := make([]JSONRevision, len(cs.Revisions))
	for i, r := range cs.Revisions {
		revs[i] = toJSONRevision(r)
	}
	return JSONChangeset{
		Index:     index,
		User:      cs.User,
		Start:     cs.FirstTime().Format(time.RFC3339),
		End:       cs.Time.Format(time.RFC3339),
		Kind:      changesetKind(cs),
		Comment:   cs.Comment,
		Files:     cs.TargetFiles(),
		Revisions: revs,
	}
}

func toJSONRevision(r vss.Revision) JSONRevision {
	return JSONRevision{
		Time:    r.Time.Format(time.RFC3339),
		Path:    r.Path,
		Item:    r.Item.String(),
		Version: r.Version,
		Action:  r.Action.String(),
		Comment: r.Comment,
	}
}

func writeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
