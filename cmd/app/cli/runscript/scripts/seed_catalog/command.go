package script_seed_catalog

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/service"
)

type CommandDeps struct {
	fx.In

	CatalogService *service.Catalog
}

func Command(depsFn func() CommandDeps) *cli.Command {
	return &cli.Command{
		Name:        "seed_catalog",
		Description: "upsert measurement item codes of the master catalog from a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "path to a JSON array of {category, section, label, code} entries",
				Required: true,
			},
		},
		Action: func(ctx *cli.Context) error {
			return run(ctx, depsFn(), ctx.String("file"))
		},
	}
}
