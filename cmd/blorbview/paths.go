package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/samcharles93/blorbview/internal/api"
	"github.com/samcharles93/blorbview/pkg/gamefile"
)

// stdinIsTTY is a small seam for tests.
var stdinIsTTY = isTTY

// resolveGamePath turns a command argument into a game file path. An argument
// naming an existing file wins; otherwise it is looked up by name in the games
// directory. With no argument the directory must hold exactly one game, or the
// user picks one interactively.
func resolveGamePath(arg, gamesDir string, stdin io.Reader, stderr io.Writer) (string, error) {
	arg = strings.TrimSpace(arg)
	dir := strings.TrimSpace(gamesDir)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(api.EnvGamesDir))
	}

	if arg != "" {
		if st, err := os.Stat(arg); err == nil && !st.IsDir() {
			return filepath.Clean(arg), nil
		}
		if dir != "" && !strings.ContainsAny(arg, `/\`) {
			if p := findInDir(dir, arg); p != "" {
				return p, nil
			}
		}
		return "", fmt.Errorf("game %q not found", arg)
	}

	if dir == "" {
		return "", fmt.Errorf("a game file or --games-path is required unless %s is set", api.EnvGamesDir)
	}
	games, err := gamefile.Discover(dir)
	if err != nil {
		return "", err
	}
	switch len(games) {
	case 0:
		return "", fmt.Errorf("no game files found in %s", dir)
	case 1:
		_, _ = fmt.Fprintf(stderr, "using game %s\n", games[0])
		return games[0], nil
	default:
		if !stdinIsTTY() {
			return "", fmt.Errorf("multiple games found in %s but stdin is not interactive; name one", dir)
		}
		return selectGameInteractively(dir, games, stdin, stderr)
	}
}

func findInDir(dir, name string) string {
	cand := filepath.Join(dir, name)
	if gamefile.IsGameFile(name) && fileExists(cand) {
		return cand
	}
	for _, ext := range gamefile.Extensions {
		if cand := filepath.Join(dir, name+ext); fileExists(cand) {
			return cand
		}
	}
	return ""
}

func selectGameInteractively(dir string, games []string, stdin io.Reader, stderr io.Writer) (string, error) {
	_, _ = fmt.Fprintf(stderr, "select a game from %s\n", dir)
	for i, g := range games {
		_, _ = fmt.Fprintf(stderr, "%d. %s\n", i+1, displayName(dir, g))
	}

	reader := bufio.NewReader(stdin)
	for {
		_, _ = fmt.Fprintf(stderr, "enter selection [1-%d]: ", len(games))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if errors.Is(err, io.EOF) {
				return "", errors.New("no selection provided on stdin")
			}
			continue
		}

		idx, convErr := strconv.Atoi(line)
		if convErr != nil || idx < 1 || idx > len(games) {
			_, _ = fmt.Fprintf(stderr, "invalid selection %q\n", line)
			if errors.Is(err, io.EOF) {
				return "", errors.New("invalid selection provided on stdin")
			}
			continue
		}
		return games[idx-1], nil
	}
}

func displayName(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return filepath.Base(path)
	}
	return rel
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
