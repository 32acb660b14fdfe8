package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/vss2git-go/config"
	"github.com/masmgr/vss2git-go/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "vss2git",
		Usage:   "Reconstruct atomic changesets from a Visual SourceSafe revision history",
		Version: "1.0.0",
		Commands: []*cli.Command{
			BuildCmd(),
			ExportCmd(),
			ConfigCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "dump",
			Aliases:  []string{"d"},
			Usage:    "Path to the revision dump (JSON)",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include, relative to $/ (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude, relative to $/ (can be specified multiple times)",
		},
		&cli.IntFlag{
			Name:  "any-comment",
			Usage: "Seconds after which comments are compared (default from config)",
			Value: -1,
		},
		&cli.IntFlag{
			Name:  "same-comment",
			Usage: "Seconds within which revisions with the same comment merge (default from config)",
			Value: -1,
		},
		&cli.BoolFlag{
			Name:  "exclude-destroyed",
			Usage: "Drop revisions on destroyed items that no longer exist",
		},
		&cli.StringFlag{
			Name:  "label-format",
			Usage: "Format for naming empty labels (%[1]s timestamp, %[2]d counter)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of changesets to list (0 for all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "revisions",
			Usage: "List the revisions of each changeset",
		},
		&cli.StringFlag{
			Name:  "log",
			Usage: "Write the trace log to this file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Mirror the trace log to stderr at debug level",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress progress output",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "ndjson":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if seconds := c.Int("any-comment"); seconds >= 0 {
		cfg.Changesets.AnyCommentThreshold = seconds
	}
	if seconds := c.Int("same-comment"); seconds >= 0 {
		cfg.Changesets.SameCommentThreshold = seconds
	}
	if c.Bool("exclude-destroyed") {
		cfg.Changesets.ExcludeAllDestroyedItems = true
	}
	if format := c.String("label-format"); format != "" {
		cfg.Changesets.UnnamedLabelFormat = format
	}
	if logFile := c.String("log"); logFile != "" {
		cfg.Log.File = logFile
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
