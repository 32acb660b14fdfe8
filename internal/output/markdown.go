package output

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownWriter writes changeset reports as Markdown.
type MarkdownWriter struct{}

// Write outputs the changeset report as Markdown.
func (w *MarkdownWriter) Write(report *ChangesetReport, options OutputOptions) error {
	changesets := limitTop(report.Changesets, options.Top)
	summary := summarize(report.Changesets)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Changeset Build Results")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Source:** %s\n\n", report.SourcePath)
	fmt.Fprintf(out, "**Changesets:** %d (%d labels)\n\n", summary.Changesets, summary.Labels)
	fmt.Fprintf(out, "**Revisions:** %d by %d users\n\n", summary.Revisions, summary.Users)
	fmt.Fprintf(out, "**Elapsed:** %s\n\n", report.Elapsed.Round(time.Millisecond))
	if report.Canceled {
		fmt.Fprintln(out, "> Build canceled: results are partial.")
		fmt.Fprintln(out)
	}

	if len(changesets) == 0 {
		fmt.Fprintln(out, "No changesets found.")
		return nil
	}

	fmt.Fprintln(out, "## Changesets")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | Time | User | Kind | Revisions | Files | Comment |")
	fmt.Fprintln(out, "|---|------|------|------|-----------|-------|---------|")

	for i, cs := range changesets {
		comment := firstLine(cs.Comment)
		if cs.IsLabel() {
			comment = labelNames(cs)
		}
		fmt.Fprintf(out, "| %d | %s | %s | %s | %d | %d | %s |\n",
			i+1, cs.Time.Format(reportDateTimeLayout), escapeMarkdown(cs.User), changesetKind(cs),
			len(cs.Revisions), cs.TargetFiles(), escapeMarkdown(truncateMessage(comment, 60)))
	}

	if options.Revisions {
		for i, cs := range changesets {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "### Changeset %d\n\n", i+1)
			for _, r := range cs.Revisions {
				fmt.Fprintf(out, "- `%s` %s\n", r.Path, escapeMarkdown(r.Action.String()))
			}
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
