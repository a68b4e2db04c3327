package runscript

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "github.com/highgarden7/dddorok-admin-backend/cmd/app/cli"
	script_migrate_schema "github.com/highgarden7/dddorok-admin-backend/cmd/app/cli/runscript/scripts/migrate_schema"
	script_reclaim_resources "github.com/highgarden7/dddorok-admin-backend/cmd/app/cli/runscript/scripts/reclaim_resources"
	script_seed_catalog "github.com/highgarden7/dddorok-admin-backend/cmd/app/cli/runscript/scripts/seed_catalog"
)

func depsFn[T any]() func() T {
	return func() T {
		var deps T
		cliapp.Start(fx.Populate(&deps))
		return deps
	}
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "run-script",
		Description: "run maintenance go scripts",
		Subcommands: []*cli.Command{
			script_migrate_schema.Command(depsFn[script_migrate_schema.CommandDeps]()),
			script_seed_catalog.Command(depsFn[script_seed_catalog.CommandDeps]()),
			script_reclaim_resources.Command(depsFn[script_reclaim_resources.CommandDeps]()),
		},
	}
}
