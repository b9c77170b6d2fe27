package gamefile

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extensions are the file suffixes treated as game files, most specific first.
var Extensions = []string{".ulx", ".gblorb", ".glb", ".blb", ".blorb"}

// IsGameFile reports whether name carries one of Extensions, ignoring case.
func IsGameFile(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// Discover lists the game files directly inside dir, sorted by path.
func Discover(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("games directory is empty")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("games path is not a directory: %s", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	games := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !IsGameFile(e.Name()) {
			continue
		}
		games = append(games, filepath.Join(dir, e.Name()))
	}
	slices.Sort(games)
	return games, nil
}
