package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blorbview/internal/report"
	"github.com/samcharles93/blorbview/pkg/blorb"
)

func inspectCmd() *cli.Command {
	var (
		asJSON       bool
		showChunks   bool
		showMetadata bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show the header, index and chunks of a game file",
		ArgsUsage: "[game]",
		Flags: []cli.Flag{
			gamesPathFlag(),
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "chunks", Usage: "list every top-level chunk", Destination: &showChunks},
			&cli.BoolFlag{Name: "metadata", Usage: "print the iFiction metadata record", Destination: &showMetadata},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := openGame(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			w := cmd.Root().Writer
			rep := report.Build(f.Path, f.Game)
			if asJSON {
				b, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(b))
				return err
			}

			printReport(w, rep, showChunks)
			if showMetadata {
				if c, ok := f.Game.Container(); ok {
					if xml, ok := c.Metadata(); ok {
						section(w, "Metadata")
						_, _ = fmt.Fprintln(w, strings.TrimSpace(string(xml)))
					}
				}
			}
			return nil
		},
	}
}

func printReport(w io.Writer, r report.Game, showChunks bool) {
	section(w, "File")
	row(w, "Path", r.Name)
	row(w, "Type", r.Type)
	row(w, "Size", formatBytes(uint64(r.Size)))
	row(w, "Digest", r.Digest.String())

	if r.Image != nil {
		printImage(w, "Glulx header", r.Image)
	}
	if c := r.Container; c != nil {
		section(w, "Container")
		row(w, "Form length", fmt.Sprintf("%d", c.FormSize))
		row(w, "Resources", fmt.Sprintf("%d", len(c.Resources)))
		if c.Frontispiece != nil {
			row(w, "Frontispiece", fmt.Sprintf("picture %d", *c.Frontispiece))
		}
		row(w, "Metadata", yesNo(c.HasMetadata))

		if len(c.Resources) > 0 {
			section(w, "Resource index")
			_, _ = fmt.Fprintf(w, "%-11s %6s  %-4s  %-10s %10s %10s  %s\n", "USAGE", "ID", "TAG", "KIND", "OFFSET", "LENGTH", "DESCRIPTION")
			for _, res := range c.Resources {
				_, _ = fmt.Fprintf(w, "%-11s %6d  %-4s  %-10s %10d %10d  %s\n",
					res.Usage, res.ID, res.Tag, res.Kind, res.Offset, res.Length, res.Description)
			}
		}
		if showChunks {
			section(w, "Chunks")
			for _, ch := range c.Chunks {
				_, _ = fmt.Fprintf(w, "%-4s  %-10s %10d %10d\n", ch.Tag, ch.Kind, ch.Offset, ch.Length)
			}
			if c.ChunkError != "" {
				_, _ = fmt.Fprintf(w, "walk stopped: %s\n", c.ChunkError)
			}
		}

		switch {
		case c.Executable != nil:
			printImage(w, "Executable "+string(blorb.TagGLUL), c.Executable)
		case c.ExecError != "":
			section(w, "Executable")
			row(w, "Error", c.ExecError)
		}
	}
}

func printImage(w io.Writer, title string, img *report.Image) {
	section(w, title)
	row(w, "Version", img.Version)
	row(w, "RAM start", hex32(img.RAMStart))
	row(w, "Ext start", hex32(img.ExtStart))
	row(w, "End mem", hex32(img.EndMem))
	row(w, "Stack size", hex32(img.StackSize))
	row(w, "Start function", hex32(img.StartFunc))
	row(w, "Decoding table", hex32(img.DecodingTable))
	if img.ChecksumOK {
		row(w, "Checksum", hex32(img.Checksum)+" (ok)")
	} else {
		row(w, "Checksum", hex32(img.Checksum)+" ("+img.ChecksumError+")")
	}
	if d := img.Debug; d != nil {
		row(w, "Inform version", d.InformVersion)
		row(w, "Release", fmt.Sprintf("%d", d.Release))
		row(w, "Serial", d.Serial)
	}
}

func section(w io.Writer, title string) {
	line := strings.Repeat("-", len(title)+8)
	_, _ = fmt.Fprintf(w, "\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%-24s %s\n", label+":", value)
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
