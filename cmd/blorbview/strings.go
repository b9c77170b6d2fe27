package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blorbview/internal/logger"
	"github.com/samcharles93/blorbview/pkg/glulx"
)

type stringRecord struct {
	Address uint32 `json:"address"`
	Type    string `json:"type"`
	Text    string `json:"text"`
}

func stringsCmd() *cli.Command {
	var (
		limit  int
		filter string
		asJSON bool
	)

	return &cli.Command{
		Name:      "strings",
		Usage:     "Decode the string table of the game's Glulx image",
		ArgsUsage: "[game]",
		Flags: []cli.Flag{
			gamesPathFlag(),
			&cli.IntFlag{Name: "limit", Usage: "maximum strings to print (0 = no limit)", Destination: &limit},
			&cli.StringFlag{Name: "filter", Usage: "case-insensitive substring filter", Destination: &filter},
			&cli.BoolFlag{Name: "json", Usage: "print one JSON object per line", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if cfg.StringsLimit != nil && !cmd.IsSet("limit") {
				limit = *cfg.StringsLimit
			}

			f, err := openGame(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			img, err := f.Game.PrimaryImage()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			all := img.Strings()
			log.Debug("decoded strings", "count", len(all), "table", hex32(img.Header().DecodingTable))
			return printStrings(cmd.Root().Writer, all, filter, limit, asJSON)
		},
	}
}

func printStrings(w io.Writer, all []glulx.ParsedString, filter string, limit int, asJSON bool) error {
	filter = strings.ToLower(filter)
	n := 0
	for _, s := range all {
		if filter != "" && !strings.Contains(strings.ToLower(s.Text), filter) {
			continue
		}
		if limit > 0 && n >= limit {
			break
		}
		n++
		if asJSON {
			b, err := json.Marshal(stringRecord{Address: s.Address, Type: s.Type.String(), Text: s.Text})
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, string(b)); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s  %-10s %q\n", hex32(s.Address), s.Type, s.Text); err != nil {
			return err
		}
	}
	return nil
}
