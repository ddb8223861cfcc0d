package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/prateekro/trayme-guard/cmd/app/commands"
	"github.com/prateekro/trayme-guard/internal/app"
	"github.com/prateekro/trayme-guard/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "rotate-key",
			Usage: "Replace the master key with a new generation (stored items become unreadable)",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Value:   false,
					Usage:   "Skip the confirmation prompt",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				vault, err := container.KeyVault()
				if err != nil {
					return err
				}

				return commands.RunRotateKey(
					ctx,
					vault,
					container.Logger(),
					commands.DefaultIO(),
					cmd.Bool("yes"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "key-status",
			Usage: "Show whether a master key exists and its generation",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				vault, err := container.KeyVault()
				if err != nil {
					return err
				}

				return commands.RunKeyStatus(ctx, vault, commands.DefaultIO().Writer, cmd.String("format"))
			},
		},
	}
}
