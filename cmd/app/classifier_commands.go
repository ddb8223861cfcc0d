package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/prateekro/trayme-guard/cmd/app/commands"
	classifierService "github.com/prateekro/trayme-guard/internal/classifier/service"
)

func getClassifierCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "classify",
			Usage: "Report the sensitive content categories found in stdin",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunClassify(
					classifierService.NewDefaultClassifier(),
					commands.DefaultIO(),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "mask",
			Usage: "Copy stdin to stdout with sensitive content masked",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunMask(classifierService.NewDefaultClassifier(), commands.DefaultIO())
			},
		},
	}
}
