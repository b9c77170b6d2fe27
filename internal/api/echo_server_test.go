package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/opencontainers/go-digest"

	"github.com/samcharles93/blorbview/internal/testutil"
)

var testPicture = []byte("\x89PNG\r\n\x1a\nnot really a png")

func writeTestGames(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	story := testutil.NewBlorb().
		Resource("Exec", 0, "GLUL", stringsImage()).
		Resource("Pict", 1, "PNG ", testPicture).
		Resource("Snd ", 3, "FORM", []byte("AIFFCOMMdata")).
		Bytes()
	mustWriteFile(t, filepath.Join(dir, "story.gblorb"), story)
	mustWriteFile(t, filepath.Join(dir, "bare.ulx"), testutil.GlulxImage(64))
	mustWriteFile(t, filepath.Join(dir, "broken.ulx"), []byte("not a game at all"))
	mustWriteFile(t, filepath.Join(dir, "readme.txt"), []byte("ignored"))
	return dir
}

// stringsImage has a decoding table whose root is a terminator, followed by
// two C strings at 0x4C and 0x53.
func stringsImage() []byte {
	b := testutil.GlulxImage(128)
	testutil.PutU32(b, 28, 0x40)
	testutil.PutU32(b, 0x40, 12)
	testutil.PutU32(b, 0x48, 0x70)
	b[0x70] = 0x01
	copy(b[0x4C:], "\xE0Hello\x00\xE0West of House\x00")
	testutil.FixChecksum(b)
	return b
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	provider, err := NewCachedGameProvider(ProviderConfig{GamesPath: writeTestGames(t)})
	if err != nil {
		t.Fatalf("NewCachedGameProvider: %v", err)
	}
	e := echo.New()
	NewServer(provider).Register(e)
	return e
}

func doGet(t *testing.T, e *echo.Echo, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v body=%s", v, err, rec.Body.String())
	}
	return v
}

func TestListGames(t *testing.T) {
	t.Parallel()
	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/games", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	list := decode[GameList](t, rec)
	if len(list.Data) != 3 {
		t.Fatalf("expected 3 games, got %+v", list.Data)
	}
	byName := map[string]GameSummary{}
	for _, g := range list.Data {
		byName[g.Name] = g
	}
	if got := byName["story.gblorb"].Type; got != "blorb" {
		t.Fatalf("story type: got %q", got)
	}
	if got := byName["bare.ulx"].Type; got != "glulx" {
		t.Fatalf("bare type: got %q", got)
	}
	if byName["broken.ulx"].Error == "" {
		t.Fatalf("expected load error for broken.ulx, got %+v", byName["broken.ulx"])
	}
}

func TestGetGame(t *testing.T) {
	t.Parallel()
	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/games/story", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	detail := decode[GameDetail](t, rec)
	if detail.ID == "" {
		t.Fatal("expected load id")
	}
	if detail.Container == nil || len(detail.Container.Resources) != 3 {
		t.Fatalf("unexpected container report: %+v", detail.Container)
	}

	again := decode[GameDetail](t, doGet(t, e, "/v1/games/story.gblorb", nil))
	if again.ID != detail.ID {
		t.Fatalf("expected cached game to keep its id: %q vs %q", again.ID, detail.ID)
	}
}

func TestGetGameErrors(t *testing.T) {
	t.Parallel()
	e := newTestEcho(t)

	tests := []struct {
		path string
		code int
	}{
		{"/v1/games/missing", http.StatusNotFound},
		{"/v1/games/broken", http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		rec := doGet(t, e, tc.path, nil)
		if rec.Code != tc.code {
			t.Errorf("%s: got %d want %d body=%s", tc.path, rec.Code, tc.code, rec.Body.String())
		}
	}

	rec := doGet(t, e, "/v1/games/broken", nil)
	if !strings.Contains(rec.Body.String(), `"code":"unknown_file_type"`) {
		t.Fatalf("expected unknown_file_type code, got %s", rec.Body.String())
	}
}

func TestListResources(t *testing.T) {
	t.Parallel()
	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/games/story/resources/pictures", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	list := decode[ResourceList](t, rec)
	if len(list.Data) != 1 || list.Data[0].ID != 1 || list.Data[0].Tag != "PNG " {
		t.Fatalf("unexpected resources: %+v", list.Data)
	}

	if rec := doGet(t, e, "/v1/games/story/resources/videos", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown usage: got %d", rec.Code)
	}
	if rec := doGet(t, e, "/v1/games/bare/resources/pict", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("bare image resources: got %d", rec.Code)
	}
}

func TestGetResource(t *testing.T) {
	t.Parallel()
	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/games/story/resources/pict/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(rec.Body.Bytes(), testPicture) {
		t.Fatalf("unexpected body %q", rec.Body.Bytes())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type: %q", ct)
	}
	etag := rec.Header().Get("ETag")
	if etag != `"`+digest.FromBytes(testPicture).String()+`"` {
		t.Fatalf("etag: %q", etag)
	}

	rec = doGet(t, e, "/v1/games/story/resources/pict/1", map[string]string{"If-None-Match": etag})
	if rec.Code != http.StatusNotModified {
		t.Fatalf("conditional get: got %d", rec.Code)
	}

	rec = doGet(t, e, "/v1/games/story/resources/sound/3", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "audio/aiff" {
		t.Fatalf("aiff: got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("FORM")) {
		t.Fatalf("expected whole FORM chunk, got %q", rec.Body.Bytes())
	}

	if rec := doGet(t, e, "/v1/games/story/resources/pict/2", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing id: got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := doGet(t, e, "/v1/games/story/resources/pict/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: got %d", rec.Code)
	}
}

func TestListStrings(t *testing.T) {
	t.Parallel()
	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/games/story/strings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	list := decode[StringList](t, rec)
	if list.Total != 2 || len(list.Data) != 2 {
		t.Fatalf("unexpected strings: %+v", list)
	}
	if list.Data[1].Text != "West of House" || list.Data[1].Address != 0x53 {
		t.Fatalf("unexpected second string: %+v", list.Data[1])
	}

	list = decode[StringList](t, doGet(t, e, "/v1/games/story/strings?q=west", nil))
	if list.Total != 1 {
		t.Fatalf("filter: %+v", list)
	}
	list = decode[StringList](t, doGet(t, e, "/v1/games/story/strings?offset=1&limit=5", nil))
	if len(list.Data) != 1 || list.Offset != 1 {
		t.Fatalf("paging: %+v", list)
	}
	list = decode[StringList](t, doGet(t, e, "/v1/games/bare/strings", nil))
	if list.Total != 0 {
		t.Fatalf("bare image has no table: %+v", list)
	}

	if rec := doGet(t, e, "/v1/games/story/strings?limit=-1", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative limit: got %d", rec.Code)
	}
}

func mustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIndexPage(t *testing.T) {
	e := newTestEcho(t)

	rec := doGet(t, e, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "/v1/games") {
		t.Fatal("index page does not call the games API")
	}
}
