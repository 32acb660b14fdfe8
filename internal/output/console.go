package output

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

// ConsoleWriter writes changeset reports as a table.
type ConsoleWriter struct{}

// Write outputs the changeset report to the console.
func (w *ConsoleWriter) Write(report *ChangesetReport, options OutputOptions) error {
	changesets := limitTop(report.Changesets, options.Top)
	summary := summarize(report.Changesets)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Changeset Build Results")
	fmt.Fprintf(out, "Source: %s\n", report.SourcePath)
	fmt.Fprintf(out, "Changesets: %d (%d labels), Revisions: %d, Users: %d\n",
		summary.Changesets, summary.Labels, summary.Revisions, summary.Users)
	fmt.Fprintf(out, "Elapsed: %s\n", report.Elapsed.Round(time.Millisecond))
	if report.Canceled {
		color.New(color.FgYellow).Fprintln(out, "Build canceled: results are partial")
	}
	fmt.Fprintln(out)

	if len(changesets) == 0 {
		fmt.Fprintln(out, "No changesets found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTime\tUser\tKind\tRevisions\tFiles\tDuration\tComment")

	for i, cs := range changesets {
		kind := changesetKind(cs)
		comment := truncateMessage(firstLine(cs.Comment), 40)
		if cs.IsLabel() {
			comment = truncateMessage(labelNames(cs), 40)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			i+1,
			cs.Time.Format(reportDateTimeLayout),
			cs.User,
			kindColor(kind)(kind),
			len(cs.Revisions),
			cs.TargetFiles(),
			cs.Duration(),
			comment,
		)
		if options.Revisions {
			for _, r := range cs.Revisions {
				fmt.Fprintf(tw, "\t\t\t\t\t\t\t  %s\n", r)
			}
		}
	}

	return tw.Flush()
}

func kindColor(kind string) func(string, ...interface{}) string {
	if kind == "label" {
		return color.YellowString
	}
	return color.GreenString
}
