package output

import (
	"encoding/csv"
	"fmt"
)

// CSVWriter writes changeset reports as CSV, one row per changeset.
type CSVWriter struct{}

// Write outputs the changeset report as CSV.
func (w *CSVWriter) Write(report *ChangesetReport, options OutputOptions) error {
	changesets := limitTop(report.Changesets, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	headers := []string{"Index", "Start", "End", "User", "Kind", "Revisions", "Files", "Comment"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for i, cs := range changesets {
		comment := cs.Comment
		if cs.IsLabel() {
			comment = labelNames(cs)
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			cs.FirstTime().Format(reportDateTimeLayout),
			cs.Time.Format(reportDateTimeLayout),
			cs.User,
			changesetKind(cs),
			fmt.Sprintf("%d", len(cs.Revisions)),
			fmt.Sprintf("%d", cs.TargetFiles()),
			comment,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
