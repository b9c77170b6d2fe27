package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/blorbview/internal/logger"
	"github.com/samcharles93/blorbview/internal/report"
	"github.com/samcharles93/blorbview/pkg/blorb"
)

func extractCmd() *cli.Command {
	var (
		outDir   string
		usages   []string
		jobs     int
		override bool
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Write the resources of a Blorb container to files",
		ArgsUsage: "[game]",
		Flags: []cli.Flag{
			gamesPathFlag(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory (default: <game>-resources)", Destination: &outDir},
			&cli.StringSliceFlag{Name: "usage", Aliases: []string{"u"}, Usage: "only extract these usages (picture, sound, exec, data)", Destination: &usages},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "parallel writers", Value: 4, Destination: &jobs},
			&cli.BoolFlag{Name: "force", Usage: "overwrite existing files", Destination: &override},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			want := map[blorb.Usage]bool{}
			for _, name := range usages {
				u, ok := blorb.ParseUsage(name)
				if !ok {
					return cli.Exit(fmt.Sprintf("error: unknown usage %q", name), 1)
				}
				want[u] = true
			}

			f, err := openGame(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			c, ok := f.Game.Container()
			if !ok {
				return cli.Exit("error: game is a bare Glulx image; nothing to extract", 1)
			}

			dir := strings.TrimSpace(outDir)
			if dir == "" {
				dir = cfg.ExtractDir
			}
			if dir == "" {
				base := filepath.Base(f.Path)
				dir = strings.TrimSuffix(base, filepath.Ext(base)) + "-resources"
			}

			written, err := extractResources(ctx, c, dir, want, jobs, override)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Info("extracted resources", "count", written, "dir", dir)
			return nil
		},
	}
}

// extractResources writes every indexed resource whose usage is in want (all of
// them when want is empty) to dir as <usage>-<id>.<ext>.
func extractResources(ctx context.Context, c *blorb.Container, dir string, want map[blorb.Usage]bool, jobs int, overwrite bool) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	var entries []blorb.IndexEntry
	for _, e := range c.Index() {
		if len(want) == 0 || want[e.Usage] {
			entries = append(entries, e)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for _, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ch, err := c.ChunkAt(e.Offset)
			if err != nil {
				return err
			}
			p := report.PayloadOf(ch)
			path := filepath.Join(dir, fmt.Sprintf("%s-%d.%s", e.Usage, e.ID, p.Ext))

			return writeResource(path, p.Data, overwrite)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// writePayload is a small seam for tests.
var writePayload = func(f *os.File, p []byte) error {
	_, err := f.Write(p)
	return err
}

// writeResource creates path and writes data to it. A failed write removes the
// partial file so a later run without --force can retry.
func writeResource(path string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	if err := writePayload(out, data); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
