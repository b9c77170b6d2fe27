package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/arc/v2"

	"github.com/samcharles93/blorbview/internal/logger"
	"github.com/samcharles93/blorbview/internal/report"
	"github.com/samcharles93/blorbview/pkg/gamefile"
	"github.com/samcharles93/blorbview/pkg/glulx"
)

// EnvGamesDir names the directory searched when no games path is configured.
const EnvGamesDir = "BLORBVIEW_GAMES_DIR"

const defaultCacheSize = 16

// GameProvider resolves game names to loaded games.
type GameProvider interface {
	WithGame(ctx context.Context, name string, fn func(g *LoadedGame) error) error
	ListGames() ([]string, error)
}

// ProviderConfig configures a CachedGameProvider.
type ProviderConfig struct {
	GamesPath string
	// DefaultGamePath is served under its base name even when it lives
	// outside GamesPath.
	DefaultGamePath string
	CacheSize       int
	Logger          logger.Logger
}

// LoadedGame is a parsed game held by the provider. It is safe for concurrent
// readers; nothing in it is mutated after load except the lazily walked strings.
type LoadedGame struct {
	ID       string
	Name     string
	Path     string
	LoadedAt time.Time
	File     *gamefile.File
	Report   report.Game

	stringsOnce sync.Once
	strings     []glulx.ParsedString
	stringsErr  error
}

// Strings returns the decoded strings of the primary image, walking them once.
func (g *LoadedGame) Strings() ([]glulx.ParsedString, error) {
	g.stringsOnce.Do(func() {
		img, err := g.File.Game.PrimaryImage()
		if err != nil {
			g.stringsErr = err
			return
		}
		g.strings = img.Strings()
	})
	return g.strings, g.stringsErr
}

// CachedGameProvider loads games from a directory and keeps the most useful
// ones in an adaptive replacement cache keyed by path.
//
// Games are read into memory rather than mapped, so an entry evicted while a
// request still holds it stays valid until that request finishes.
type CachedGameProvider struct {
	cfg   ProviderConfig
	log   logger.Logger
	mu    sync.Mutex
	cache *arc.ARCCache[string, *LoadedGame]
}

// NewCachedGameProvider builds a provider. A non-positive CacheSize uses the default.
func NewCachedGameProvider(cfg ProviderConfig) (*CachedGameProvider, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := arc.NewARC[string, *LoadedGame](size)
	if err != nil {
		return nil, fmt.Errorf("create game cache: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &CachedGameProvider{cfg: cfg, log: log, cache: cache}, nil
}

// WithGame loads (or reuses) the named game and calls fn with it.
func (p *CachedGameProvider) WithGame(ctx context.Context, name string, fn func(g *LoadedGame) error) error {
	path, err := p.resolveGamePath(name)
	if err != nil {
		return err
	}
	g, err := p.getOrLoad(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(g)
}

func (p *CachedGameProvider) getOrLoad(path string) (*LoadedGame, error) {
	if g, ok := p.cache.Get(path); ok {
		return g, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.cache.Get(path); ok {
		return g, nil
	}

	g, err := loadGame(path)
	if err != nil {
		p.log.Warn("game load failed", "path", path, logger.Err(err))
		return nil, err
	}
	p.log.Info("game loaded", "path", path, "id", g.ID, "type", g.Report.Type, "size", g.Report.Size)
	p.cache.Add(path, g)
	return g, nil
}

func loadGame(path string) (*LoadedGame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	gf, err := gamefile.OpenReaderAt(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	gf.Path = path

	name := filepath.Base(path)
	return &LoadedGame{
		ID:       uuid.NewString(),
		Name:     name,
		Path:     path,
		LoadedAt: time.Now().UTC(),
		File:     gf,
		Report:   report.Build(name, gf.Game),
	}, nil
}

// ListGames returns the game file names available to WithGame, sorted.
func (p *CachedGameProvider) ListGames() ([]string, error) {
	var names []string
	if dir := p.gamesDir(); dir != "" {
		paths, err := gamefile.Discover(dir)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			names = append(names, filepath.Base(path))
		}
	}
	if p.cfg.DefaultGamePath != "" {
		base := filepath.Base(p.cfg.DefaultGamePath)
		if !slices.Contains(names, base) {
			names = append(names, base)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (p *CachedGameProvider) resolveGamePath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newInvalidRequest("game name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", newInvalidRequest(fmt.Sprintf("invalid game name %q", name))
	}

	if def := p.cfg.DefaultGamePath; def != "" {
		base := filepath.Base(def)
		if name == base || name == strings.TrimSuffix(base, filepath.Ext(base)) {
			return filepath.Clean(def), nil
		}
	}

	dir := p.gamesDir()
	if dir == "" {
		return "", fmt.Errorf("%w: %q (no games directory configured)", ErrGameNotFound, name)
	}
	if resolved := resolveInDir(dir, name); resolved != "" {
		return resolved, nil
	}
	return "", fmt.Errorf("%w: %q in %s", ErrGameNotFound, name, dir)
}

func (p *CachedGameProvider) gamesDir() string {
	if dir := strings.TrimSpace(p.cfg.GamesPath); dir != "" {
		return dir
	}
	return strings.TrimSpace(os.Getenv(EnvGamesDir))
}

func resolveInDir(dir, name string) string {
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

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
