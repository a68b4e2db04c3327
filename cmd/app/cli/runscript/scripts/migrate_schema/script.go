package script_migrate_schema

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/highgarden7/dddorok-admin-backend/internal/repo/schema"
)

func run(ctx *cli.Context, deps CommandDeps) error {
	log.Info().Msg("running script")

	if err := schema.CreateTables(ctx.Context, deps.DB); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	log.Info().Msg("script finished")

	return nil
}
