package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/vss2git-go/internal/changeset"
	"github.com/masmgr/vss2git-go/internal/output"
)

func writeChangesetReport(c *cli.Context, cc *CommandContext, result *changeset.Result) error {
	report := &output.ChangesetReport{
		SourcePath:  cc.DumpPath,
		GeneratedAt: time.Now(),
		Elapsed:     result.Elapsed,
		Canceled:    result.Canceled,
		Changesets:  result.Changesets,
	}
	opts := OutputOptions(c)
	writer := output.NewReportWriter(opts.Format)
	return writer.Write(report, opts)
}
