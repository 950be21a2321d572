package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/freedux/internal/config"
	"github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/internal/statefile"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	colors := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !colors {
		errors.DisableColors()
	}

	if err := newRootCmd(&cli{colors: colors}).Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries settings shared by the subcommands.
type cli struct {
	colors   bool
	logLevel string

	// objects overrides the S3 client built from freedux.json.
	objects statefile.ObjectStore
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "freedux",
		Short: "Inspect and edit state documents with path-addressed writes",
		Long: `freedux reads a JSON or YAML state document into a store and
reads or writes single paths in it. FILE is a local path or an
s3://bucket/key URI.

Paths are written as dotted keys (todos.0.done) or as singular
JSONPath queries ($.todos[0].done).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from freedux.json)")

	rootCmd.AddCommand(
		getCmd(c),
		setCmd(c),
		inspectCmd(c),
		versionCmd(),
	)
	return rootCmd
}

// settings loads freedux.json from the working directory and applies the
// global flags.
func (c *cli) settings() (*config.Config, slog.Level, error) {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		return nil, 0, err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, 0, err
	}
	return cfg, level, nil
}

// open resolves a FILE argument to a local file or an s3:// object.
func (c *cli) open(name string, cfg *config.Config) (statefile.Source, error) {
	objects := c.objects
	if objects == nil && statefile.IsS3URI(name) {
		objects = statefile.NewS3Client(cfg.S3.Region, cfg.S3.Endpoint)
	}
	return statefile.Open(name, objects)
}

// logger returns a text logger on w at the given level.
func (c *cli) logger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// success prints a success message.
func (c *cli) success(w io.Writer, format string, args ...any) {
	mark := "✓"
	if c.colors {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an info message.
func (c *cli) info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
