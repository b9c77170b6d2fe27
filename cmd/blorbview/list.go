package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/blorbview/internal/api"
	"github.com/samcharles93/blorbview/internal/logger"
	"github.com/samcharles93/blorbview/pkg/gamefile"
)

type gameListing struct {
	name      string
	size      int64
	typ       string
	release   string
	resources int
	err       error
}

func listCmd() *cli.Command {
	var jobs int

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the game files in a directory",
		Flags: []cli.Flag{
			gamesPathFlag(),
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "files opened in parallel", Value: 8, Destination: &jobs},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyGamesConfig(cmd, cfg)

			dir := strings.TrimSpace(gamesPath)
			if dir == "" {
				dir = strings.TrimSpace(os.Getenv(api.EnvGamesDir))
			}
			if dir == "" {
				return cli.Exit("error: --games-path is required unless "+api.EnvGamesDir+" is set", 1)
			}

			paths, err := gamefile.Discover(dir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(paths) == 0 {
				log.Info("no games found", "path", dir)
				return nil
			}

			listings, err := describeGames(ctx, paths, jobs)
			if err != nil {
				return err
			}
			printListings(cmd.Root().Writer, dir, listings)
			return nil
		},
	}
}

// describeGames opens each path concurrently. Per-file failures are recorded
// in the listing rather than aborting the run.
func describeGames(ctx context.Context, paths []string, jobs int) ([]gameListing, error) {
	out := make([]gameListing, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = describeGame(path)
			return nil
		})
	}
	return out, g.Wait()
}

func describeGame(path string) gameListing {
	l := gameListing{name: filepath.Base(path)}
	if st, err := os.Stat(path); err == nil {
		l.size = st.Size()
	}
	f, err := gamefile.Open(path)
	if err != nil {
		l.err = err
		return l
	}
	defer func() { _ = f.Close() }()

	l.typ = f.Game.Type().String()
	if c, ok := f.Game.Container(); ok {
		l.resources = len(c.Index())
	}
	if img, err := f.Game.PrimaryImage(); err == nil {
		if d, ok := img.DebugHeader(); ok {
			l.release = fmt.Sprintf("r%d/%s", d.Release, d.Serial)
		}
	}
	return l
}

func printListings(w io.Writer, dir string, listings []gameListing) {
	_, _ = fmt.Fprintf(w, "Games in %s:\n\n", dir)
	for _, l := range listings {
		if l.err != nil {
			_, _ = fmt.Fprintf(w, "  %-36s %10s  error: %v\n", l.name, formatBytes(uint64(l.size)), l.err)
			continue
		}
		detail := l.typ
		if l.resources > 0 {
			detail += fmt.Sprintf(", %d resources", l.resources)
		}
		if l.release != "" {
			detail += ", " + l.release
		}
		_, _ = fmt.Fprintf(w, "  %-36s %10s  (%s)\n", l.name, formatBytes(uint64(l.size)), detail)
	}
	_, _ = fmt.Fprintf(w, "\n%d game(s) found\n", len(listings))
}
