package script_migrate_schema

import (
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

type CommandDeps struct {
	fx.In

	DB *bun.DB
}

func Command(depsFn func() CommandDeps) *cli.Command {
	return &cli.Command{
		Name:        "migrate_schema",
		Description: "create every missing table, foreign key and index of the admin schema",
		Action: func(ctx *cli.Context) error {
			return run(ctx, depsFn())
		},
	}
}
