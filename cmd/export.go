package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/vss2git-go/internal/export"
	"github.com/masmgr/vss2git-go/internal/workqueue"
)

// ExportCmd returns the export command.
func ExportCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:     "repo",
			Aliases:  []string{"r"},
			Usage:    "Path of the git repository to write (created if missing)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "email-domain",
			Usage: "Domain used to form author e-mail addresses",
		},
		&cli.StringFlag{
			Name:  "default-comment",
			Usage: "Commit message for changesets without a comment",
		},
		&cli.StringFlag{
			Name:  "default-branch",
			Usage: "Branch name for a newly created repository",
		},
		&cli.BoolFlag{
			Name:  "annotated-tags",
			Usage: "Create annotated tags for all labels",
		},
	)

	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Build changesets and replay them as commits into a git repository",
		Flags:   flags,
		Action:  exportAction,
	}
}

// exportOptions merges the export section of the config with CLI overrides.
func exportOptions(c *cli.Context, cc *CommandContext) export.Options {
	cfg := cc.Config.Export
	opts := export.Options{
		RepoPath:           c.String("repo"),
		EmailDomain:        cfg.EmailDomain,
		DefaultComment:     cfg.DefaultComment,
		DefaultBranch:      cfg.DefaultBranch,
		ForceAnnotatedTags: cfg.ForceAnnotatedTags || c.Bool("annotated-tags"),
	}
	if v := c.String("email-domain"); v != "" {
		opts.EmailDomain = v
	}
	if v := c.String("default-comment"); v != "" {
		opts.DefaultComment = v
	}
	if v := c.String("default-branch"); v != "" {
		opts.DefaultBranch = v
	}
	return opts
}

func exportAction(c *cli.Context) error {
	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer cc.Close()

	if !cc.HasRevisions() {
		cc.PrintNoRevisionsMessage(c.App.Writer)
		return nil
	}

	exporter, err := export.NewGitExporter(exportOptions(c, cc), cc.Log)
	if err != nil {
		return fmt.Errorf("failed to open target repository: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	q := workqueue.New(ctx)
	job := queueBuild(q, cc)

	var stats export.Stats
	q.Add("Exporting to git", func(ctx context.Context) error {
		if job.result == nil || job.result.Canceled {
			return nil
		}
		s, err := exporter.Export(ctx, job.result.Changesets)
		stats = s
		return err
	})

	if err := waitForQueue(q, job.progress, c.App.ErrWriter, cc.Quiet); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if job.result == nil {
		return fmt.Errorf("export interrupted before the build started")
	}

	switch {
	case job.result.Canceled || stats.Canceled:
		cc.Status(c.App.ErrWriter, "Export canceled: %d commits and %d tags written", stats.Commits, stats.Tags)
	default:
		cc.Status(c.App.ErrWriter, "Exported %d commits and %d tags (%d labels skipped) to %s",
			stats.Commits, stats.Tags, stats.SkippedTags, c.String("repo"))
	}

	return writeChangesetReport(c, cc, job.result)
}
