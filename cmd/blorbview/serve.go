package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/blorbview/internal/api"
	"github.com/samcharles93/blorbview/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		defaultGame string
		cacheSize   int
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve game reports and resources over HTTP",
		Flags: []cli.Flag{
			gamesPathFlag(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "game",
				Usage:       "serve this game file even if it is outside --games-path",
				Destination: &defaultGame,
			},
			&cli.IntFlag{
				Name:        "cache-size",
				Usage:       "number of parsed games kept in memory",
				Value:       16,
				Destination: &cacheSize,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyGamesConfig(cmd, cfg)
			if cfg.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = cfg.ServerAddress
			}
			if cfg.CacheSize != nil && !cmd.IsSet("cache-size") {
				cacheSize = *cfg.CacheSize
			}

			provider, err := api.NewCachedGameProvider(api.ProviderConfig{
				GamesPath:       gamesPath,
				DefaultGamePath: defaultGame,
				CacheSize:       cacheSize,
				Logger:          log.With("component", "games"),
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			api.NewServer(provider).Register(e)

			log.Info("starting server", "address", addr, "games", gamesPath)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
