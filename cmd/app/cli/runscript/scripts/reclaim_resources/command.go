package script_reclaim_resources

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

type CommandDeps struct {
	fx.In

	ResourceReclaimer *service.ResourceReclaimer
}

func Command(depsFn func() CommandDeps) *cli.Command {
	return &cli.Command{
		Name:        "reclaim_resources",
		Description: "run one resource reclaimer sweep now, outside of the daily schedule",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pprof",
				Usage: "serve fgprof on 127.0.0.1:6060/debug/fgprof while the sweep runs",
			},
		},
		Action: func(ctx *cli.Context) error {
			return run(ctx, depsFn())
		},
	}
}
