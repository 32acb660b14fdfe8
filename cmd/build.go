package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/vss2git-go/internal/changeset"
	"github.com/masmgr/vss2git-go/internal/workqueue"
)

// BuildCmd returns the build command.
func BuildCmd() *cli.Command {
	return &cli.Command{
		Name:    "build",
		Aliases: []string{"b"},
		Usage:   "Group the revisions of a dump into changesets and report them",
		Flags:   commonFlags(),
		Action:  buildAction,
	}
}

// buildJob runs the changeset builder as a queue unit.
type buildJob struct {
	builder *changeset.Builder
	result  *changeset.Result
}

func queueBuild(q *workqueue.Queue, cc *CommandContext) *buildJob {
	job := &buildJob{
		builder: changeset.NewBuilder(cc.Source, cc.Config.ChangesetOptions(), cc.Log),
	}
	q.Add("Building changesets", func(ctx context.Context) error {
		result, err := job.builder.Build(ctx)
		if err != nil {
			return err
		}
		job.result = result
		return nil
	})
	return job
}

func (j *buildJob) progress() string {
	return fmt.Sprintf("%d changesets", j.builder.Count())
}

func buildAction(c *cli.Context) error {
	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer cc.Close()

	if !cc.HasRevisions() {
		cc.PrintNoRevisionsMessage(c.App.Writer)
		return nil
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	q := workqueue.New(ctx)
	job := queueBuild(q, cc)
	if err := waitForQueue(q, job.progress, c.App.ErrWriter, cc.Quiet); err != nil {
		return fmt.Errorf("failed to build changesets: %w", err)
	}
	if job.result == nil {
		return fmt.Errorf("build interrupted before it started")
	}

	if job.result.Canceled {
		cc.Status(c.App.ErrWriter, "Build canceled after %d changesets", len(job.result.Changesets))
	} else {
		cc.Status(c.App.ErrWriter, "Built %d changesets from %d revisions in %s",
			len(job.result.Changesets), cc.Source.RevisionCount(), job.result.Elapsed)
	}

	return writeChangesetReport(c, cc, job.result)
}
