package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blorbview/internal/logger"
	"github.com/samcharles93/blorbview/pkg/gamefile"
)

// openGame resolves the command's game argument and opens it.
func openGame(ctx context.Context, cmd *cli.Command) (*gamefile.File, error) {
	log := logger.FromContext(ctx)
	applyGamesConfig(cmd, cfg)

	path, err := resolveGamePath(cmd.Args().First(), gamesPath, os.Stdin, cmd.Root().ErrWriter)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	f, err := gamefile.Open(path)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: %s: %v", path, err), 1)
	}
	log.Debug("opened game", "path", path, "type", f.Game.Type().String(), "size", len(f.Data))
	return f, nil
}
