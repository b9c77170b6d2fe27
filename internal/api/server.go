package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/opencontainers/go-digest"

	"github.com/samcharles93/blorbview/internal/report"
	"github.com/samcharles93/blorbview/internal/webui"
	"github.com/samcharles93/blorbview/pkg/blorb"
)

const (
	defaultStringsLimit = 100
	maxStringsLimit     = 5000

	headerETag        = "ETag"
	headerIfNoneMatch = "If-None-Match"
	headerCacheCtl    = "Cache-Control"
)

// Server exposes loaded games over HTTP.
type Server struct {
	provider GameProvider
}

func NewServer(provider GameProvider) *Server {
	return &Server{provider: provider}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/", handleIndex)
	e.GET("/v1/games", s.handleListGames)
	e.GET("/v1/games/:name", s.handleGetGame)
	e.GET("/v1/games/:name/resources/:usage", s.handleListResources)
	e.GET("/v1/games/:name/resources/:usage/:id", s.handleGetResource)
	e.GET("/v1/games/:name/strings", s.handleListStrings)
}

func handleIndex(c *echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMETextHTMLCharsetUTF8, webui.Index())
}

func (s *Server) handleListGames(c *echo.Context) error {
	names, err := s.provider.ListGames()
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
	}

	out := GameList{Object: "list", Data: make([]GameSummary, 0, len(names))}
	ctx := c.Request().Context()
	for _, name := range names {
		sum := GameSummary{Name: name}
		err := s.provider.WithGame(ctx, name, func(g *LoadedGame) error {
			sum.Type = g.Report.Type
			sum.Size = g.Report.Size
			sum.Digest = g.Report.Digest
			return nil
		})
		if err != nil {
			sum.Error = err.Error()
		}
		out.Data = append(out.Data, sum)
	}
	return writeJSON(c, http.StatusOK, out)
}

func (s *Server) handleGetGame(c *echo.Context) error {
	var detail GameDetail
	err := s.provider.WithGame(c.Request().Context(), c.Param("name"), func(g *LoadedGame) error {
		detail = GameDetail{ID: g.ID, LoadedAt: g.LoadedAt, Game: g.Report}
		return nil
	})
	if err != nil {
		return writeFailure(c, err)
	}
	return writeJSON(c, http.StatusOK, detail)
}

func (s *Server) handleListResources(c *echo.Context) error {
	usage, ok := blorb.ParseUsage(c.Param("usage"))
	if !ok {
		return writeBadRequest(c, fmt.Sprintf("unknown resource usage %q", c.Param("usage")))
	}

	out := ResourceList{Object: "list", Usage: usage.String(), Data: []report.Resource{}}
	err := s.provider.WithGame(c.Request().Context(), c.Param("name"), func(g *LoadedGame) error {
		ct, ok := g.File.Game.Container()
		if !ok {
			return errNoContainer
		}
		for _, r := range report.Resources(ct) {
			if r.Usage == usage.String() {
				out.Data = append(out.Data, r)
			}
		}
		return nil
	})
	if err != nil {
		return writeFailure(c, err)
	}
	return writeJSON(c, http.StatusOK, out)
}

func (s *Server) handleGetResource(c *echo.Context) error {
	usage, ok := blorb.ParseUsage(c.Param("usage"))
	if !ok {
		return writeBadRequest(c, fmt.Sprintf("unknown resource usage %q", c.Param("usage")))
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("invalid resource id %q", c.Param("id")))
	}

	var (
		body        []byte
		contentType string
	)
	err = s.provider.WithGame(c.Request().Context(), c.Param("name"), func(g *LoadedGame) error {
		ct, ok := g.File.Game.Container()
		if !ok {
			return errNoContainer
		}
		ch, err := ct.Resource(usage, int32(id))
		if err != nil {
			return err
		}
		p := report.PayloadOf(ch)
		body, contentType = p.Data, p.MediaType
		return nil
	})
	if err != nil {
		return writeFailure(c, err)
	}

	etag := `"` + digest.FromBytes(body).String() + `"`
	res := c.Response()
	res.Header().Set(headerETag, etag)
	res.Header().Set(headerCacheCtl, "private, max-age=0, must-revalidate")
	if match := c.Request().Header.Get(headerIfNoneMatch); match != "" && etagMatches(match, etag) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, contentType, body)
}

func (s *Server) handleListStrings(c *echo.Context) error {
	limit, err := queryInt(c, "limit", defaultStringsLimit)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	limit = min(limit, maxStringsLimit)
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	filter := strings.ToLower(c.QueryParam("q"))

	var out StringList
	err = s.provider.WithGame(c.Request().Context(), c.Param("name"), func(g *LoadedGame) error {
		all, err := g.Strings()
		if err != nil {
			return err
		}
		items := make([]StringItem, 0, len(all))
		for _, ps := range all {
			if filter != "" && !strings.Contains(strings.ToLower(ps.Text), filter) {
				continue
			}
			items = append(items, StringItem{
				Address: ps.Address,
				Type:    ps.Type.String(),
				Length:  ps.Length,
				Text:    ps.Text,
			})
		}
		out = StringList{Object: "list", Total: len(items), Offset: offset}
		start := min(offset, len(items))
		end := min(start+limit, len(items))
		out.Data = items[start:end]
		return nil
	})
	if err != nil {
		return writeFailure(c, err)
	}
	return writeJSON(c, http.StatusOK, out)
}

func etagMatches(header, etag string) bool {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "*" || strings.TrimPrefix(part, "W/") == etag {
			return true
		}
	}
	return false
}

func queryInt(c *echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}
