package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/samcharles93/blorbview/internal/browse"
)

func browseCmd() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "Explore a game interactively in the terminal",
		ArgsUsage: "[game]",
		Flags:     []cli.Flag{gamesPathFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cli.Exit("error: browse needs an interactive terminal; use inspect instead", 1)
			}

			f, err := openGame(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			if err := browse.Run(ctx, filepath.Base(f.Path), f.Game); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}
