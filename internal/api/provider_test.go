package api

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/samcharles93/blorbview/internal/testutil"
)

func TestListGamesFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "beta.ulx"), []byte("b"))
	mustWriteFile(t, filepath.Join(dir, "alpha.gblorb"), []byte("a"))
	mustWriteFile(t, filepath.Join(dir, "notes.txt"), []byte("x"))

	provider, err := NewCachedGameProvider(ProviderConfig{GamesPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	got, err := provider.ListGames()
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	want := []string{"alpha.gblorb", "beta.ulx"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListGames() = %v, want %v", got, want)
	}
}

func TestListGamesIncludesDefault(t *testing.T) {
	t.Parallel()

	provider, err := NewCachedGameProvider(ProviderConfig{DefaultGamePath: "/games/custom.ulx"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := provider.ListGames()
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"custom.ulx"}) {
		t.Fatalf("ListGames() = %v", got)
	}
}

func TestDefaultGameResolvesOutsideDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "solo.ulx")
	mustWriteFile(t, path, testutil.GlulxImage(64))

	provider, err := NewCachedGameProvider(ProviderConfig{DefaultGamePath: path})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"solo", "solo.ulx"} {
		err := provider.WithGame(context.Background(), name, func(g *LoadedGame) error {
			if g.Path != path {
				t.Errorf("path = %q, want %q", g.Path, path)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithGame(%q): %v", name, err)
		}
	}
}

func TestResolveRejectsPaths(t *testing.T) {
	t.Parallel()

	provider, err := NewCachedGameProvider(ProviderConfig{GamesPath: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "..", "../etc/passwd", `a\b`} {
		if _, err := provider.resolveGamePath(name); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("resolveGamePath(%q) err = %v, want ErrInvalidRequest", name, err)
		}
	}
	if _, err := provider.resolveGamePath("absent"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("resolveGamePath(absent) err = %v, want ErrGameNotFound", err)
	}
}

func TestGamesDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "env.ulx"), testutil.GlulxImage(64))
	t.Setenv(EnvGamesDir, dir)

	provider, err := NewCachedGameProvider(ProviderConfig{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := provider.ListGames()
	if err != nil || !reflect.DeepEqual(got, []string{"env.ulx"}) {
		t.Fatalf("ListGames() = %v, %v", got, err)
	}
}

func TestCacheEvictionReloads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.ulx", "b.ulx", "c.ulx"} {
		mustWriteFile(t, filepath.Join(dir, name), testutil.GlulxImage(64))
	}
	provider, err := NewCachedGameProvider(ProviderConfig{GamesPath: dir, CacheSize: 1})
	if err != nil {
		t.Fatal(err)
	}

	ids := map[string]string{}
	load := func(name string) string {
		var id string
		if err := provider.WithGame(context.Background(), name, func(g *LoadedGame) error {
			id = g.ID
			return nil
		}); err != nil {
			t.Fatalf("WithGame(%s): %v", name, err)
		}
		return id
	}
	for _, name := range []string{"a", "b", "c"} {
		ids[name] = load(name)
	}
	if provider.cache.Len() > 1 {
		t.Fatalf("cache holds %d entries, want at most 1", provider.cache.Len())
	}
	if load("c") != ids["c"] {
		t.Fatal("most recent game should still be cached")
	}
	if load("a") == ids["a"] {
		t.Fatal("evicted game should get a new load id")
	}
}

func TestWithGameHonoursContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "a.ulx"), testutil.GlulxImage(64))
	provider, err := NewCachedGameProvider(ProviderConfig{GamesPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = provider.WithGame(ctx, "a", func(*LoadedGame) error {
		t.Fatal("callback should not run")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
