package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/prateekro/trayme-guard/cmd/app/commands"
	"github.com/prateekro/trayme-guard/internal/app"
	authService "github.com/prateekro/trayme-guard/internal/auth/service"
	"github.com/prateekro/trayme-guard/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "hash-passcode",
			Usage: "Prompt for a device passcode and print its AUTH_PASSCODE_HASH",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				// Prompts go to stderr so stdout can be redirected into .env.
				source := authService.NewTerminalCredentialSource(int(os.Stdin.Fd()), os.Stderr)

				return commands.RunHashPasscode(
					ctx,
					source,
					container.PasscodeService(),
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
