package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blorbview/internal/logger"
	"github.com/samcharles93/blorbview/internal/version"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "blorbview",
		Usage:   "Inspect Blorb containers and Glulx game images",
		Version: version.String(),
		Flags:   globalFlags(),
		Before:  setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(),
			stringsCmd(),
			extractCmd(),
			listCmd(),
			serveCmd(),
			browseCmd(),
			versionCmd(),
		},
	}
}

// setup loads the config file and installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	c, err := LoadConfig(configFile)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 2)
	}
	cfg = c
	applyGlobalConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.FromFlags(cmd.Root().ErrWriter, logFormat, level)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 2)
	}
	return logger.WithContext(ctx, log), nil
}
