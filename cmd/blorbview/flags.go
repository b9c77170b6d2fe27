package main

import "github.com/urfave/cli/v3"

var (
	gamesPath  string
	configFile string
	logLevel   string
	logFormat  string
	debug      bool

	// cfg is the loaded config file, set before any command runs.
	cfg Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: user config dir)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func gamesPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "games-path",
		Aliases:     []string{"path"},
		Usage:       "directory containing game files",
		Destination: &gamesPath,
	}
}
