package cmd

import (
	"context"
	"fmt"

	"github.com/cvlens/cvlens/internal/config"
	"github.com/cvlens/cvlens/internal/server"
	"github.com/urfave/cli/v3"
)

func serverCmd() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run the CV analysis HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "upload-dir",
				Usage:   "Directory for uploaded documents",
				Sources: cli.EnvVars("CVLENS_UPLOADS_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if v := cmd.String("log-level"); v != "" {
				cfg.Logging.Level = v
			}
			if v := cmd.String("upload-dir"); v != "" {
				cfg.Uploads.Dir = v
			}

			return server.Run(ctx, cfg)
		},
	}
}
