package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/vss2git-go/config"
	"github.com/masmgr/vss2git-go/internal/output"
	"github.com/masmgr/vss2git-go/internal/vss"
)

// progressEvery controls how often dump loading is traced.
const progressEvery = 10000

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across commands.
type CommandContext struct {
	Config   *config.Config
	DumpPath string
	Source   *vss.DumpSource
	Log      *logrus.Logger
	Quiet    bool

	closeLog func() error
}

// NewCommandContext creates a context from CLI flags.
// It performs configuration loading, logger setup and reading of the revision dump.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(cfg.Log, c.Bool("verbose"), c.App.ErrWriter)
	if err != nil {
		return nil, err
	}

	dumpPath := c.String("dump")
	source, err := vss.OpenDump(vss.ReadOptions{
		DumpPath: dumpPath,
		Include:  cfg.Filters.Include,
		Exclude:  cfg.Filters.Exclude,
		OnProgress: func(revisions int) {
			if revisions%progressEvery == 0 {
				logger.Debugf("Read %d revisions", revisions)
			}
		},
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to read revision dump: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"dump":      dumpPath,
		"revisions": source.RevisionCount(),
		"files":     source.FileCount(),
		"skipped":   source.Skipped(),
	}).Info("Loaded revision dump")

	return &CommandContext{
		Config:   cfg,
		DumpPath: dumpPath,
		Source:   source,
		Log:      logger,
		Quiet:    c.Bool("quiet"),
		closeLog: closeLog,
	}, nil
}

// Close releases the trace log.
func (ctx *CommandContext) Close() error {
	if ctx.closeLog == nil {
		return nil
	}
	return ctx.closeLog()
}

// HasRevisions returns true if the dump yielded revisions after filtering.
func (ctx *CommandContext) HasRevisions() bool {
	return ctx.Source.RevisionCount() > 0
}

// PrintNoRevisionsMessage prints a message when the dump is empty.
func (ctx *CommandContext) PrintNoRevisionsMessage(w io.Writer) {
	fmt.Fprintln(w, "No revisions found in the revision dump.")
}

// Status prints a user-facing status line unless quiet.
func (ctx *CommandContext) Status(w io.Writer, format string, args ...interface{}) {
	if ctx.Quiet {
		return
	}
	color.New(color.FgCyan).Fprintf(w, format+"\n", args...)
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
		Revisions:  c.Bool("revisions"),
	}
}

// newLogger builds the trace logger. Without a log file or verbose mode the log is
// discarded.
func newLogger(cfg config.LogConfig, verbose bool, stderr io.Writer) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}

	var writers []io.Writer
	closeLog := func() error { return nil }

	if cfg.File != "" {
		f, err := os.Create(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closeLog = f.Close
	}
	if verbose {
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, stderr)
		level = logrus.DebugLevel
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	logger.SetLevel(level)

	return logger, closeLog, nil
}
