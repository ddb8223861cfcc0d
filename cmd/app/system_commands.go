package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/prateekro/trayme-guard/cmd/app/commands"
	"github.com/prateekro/trayme-guard/internal/app"
	"github.com/prateekro/trayme-guard/internal/config"
	"github.com/prateekro/trayme-guard/internal/database"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				db, err := container.DB()
				if err != nil {
					return err
				}

				sourceURL, err := database.MigrationsPath(cfg.DBDriver)
				if err != nil {
					return err
				}

				return commands.RunMigrations(container.Logger(), db, cfg.DBDriver, sourceURL)
			},
		},
		{
			Name:  "purge-expired",
			Usage: "Delete self-destructing items past their deadline",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "List expired items without deleting them",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecretStore()
				if err != nil {
					return err
				}

				return commands.RunPurgeExpired(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
