package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/playperu/bracket/internal/client"
)

// cliEnv supplies flag defaults from the environment.
type cliEnv struct {
	URL     string `env:"BRACKET_URL" envDefault:"http://localhost:8080"`
	EditKey string `env:"BRACKET_EDIT_KEY"`
	Origin  string `env:"BRACKET_ORIGIN"`
}

type app struct {
	url     string
	key     string
	origin  string
	timeout time.Duration
	verbose bool

	stdout io.Writer
	stderr io.Writer
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

func (a *app) board() *client.Board {
	logger := a.logger()
	c := client.New(a.url,
		client.WithOrigin(a.origin),
		client.WithLogger(logger),
	)
	return client.NewBoard(c, logger)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	defaults, err := env.ParseAs[cliEnv]()
	if err != nil {
		fmt.Fprintf(stderr, "warning: ignoring environment: %v\n", err)
		defaults = cliEnv{URL: "http://localhost:8080"}
	}

	root := &cobra.Command{
		Use:           "bracket",
		Short:         "Read and edit tournament bracket results",
		Long:          `Shows the bracket results held by a results store and edits them with the shared edit key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.url, "url", defaults.URL, "Results store base URL (BRACKET_URL)")
	root.PersistentFlags().StringVar(&a.key, "key", defaults.EditKey, "Edit key for writes (BRACKET_EDIT_KEY)")
	root.PersistentFlags().StringVar(&a.origin, "origin", defaults.Origin, "Origin header sent to the store (BRACKET_ORIGIN)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 15*time.Second, "Timeout for one-shot commands")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log requests and failures")

	root.AddCommand(
		newShowCmd(a),
		newTeamsCmd(a),
		newSaveCmd(a),
		newClearCmd(a),
		newWatchCmd(a),
	)
	return root
}
