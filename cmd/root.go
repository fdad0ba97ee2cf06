package cmd

import (
	"github.com/urfave/cli/v3"
)

var version = "dev"

func App() *cli.Command {
	return &cli.Command{
		Name:    "cvlens",
		Version: version,
		Usage:   "Smart CV feedback service. Upload a CV, poll progress, fetch a structured report.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML config file",
				Sources: cli.EnvVars("CVLENS_CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("CVLENS_LOGGING_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			serverCmd(),
		},
	}
}
