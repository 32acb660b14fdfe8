package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// CIWriter writes changeset reports as NDJSON (one JSON object per line) for pipelines.
type CIWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type            string `json:"type"`
	TotalChangesets int    `json:"totalChangesets"`
	TotalRevisions  int    `json:"totalRevisions"`
	Labels          int    `json:"labels"`
	Users           int    `json:"users"`
	MaxRevisions    int    `json:"maxRevisions"`
	Canceled        bool   `json:"canceled"`
}

// CIChangesetEntry represents a single changeset in CI output.
type CIChangesetEntry struct {
	Type      string `json:"type"`
	Index     int    `json:"index"`
	User      string `json:"user"`
	Time      string `json:"time"`
	Kind      string `json:"kind"`
	Revisions int    `json:"revisions"`
	Files     int    `json:"files"`
	Comment   string `json:"comment,omitempty"`
}

// Write outputs the changeset report as NDJSON.
func (w *CIWriter) Write(report *ChangesetReport, options OutputOptions) error {
	changesets := limitTop(report.Changesets, options.Top)
	summary := summarize(report.Changesets)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writeNDJSONLine(out, CISummary{
		Type:            "summary",
		TotalChangesets: summary.Changesets,
		TotalRevisions:  summary.Revisions,
		Labels:          summary.Labels,
		Users:           summary.Users,
		MaxRevisions:    summary.MaxRevisions,
		Canceled:        report.Canceled,
	}); err != nil {
		return err
	}

	for i, cs := range changesets {
		entry := CIChangesetEntry{
			Type:      "changeset",
			Index:     i + 1,
			User:      cs.User,
			Time:      cs.Time.Format(time.RFC3339),
			Kind:      changesetKind(cs),
			Revisions: len(cs.Revisions),
			Files:     cs.TargetFiles(),
			Comment:   firstLine(cs.Comment),
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
