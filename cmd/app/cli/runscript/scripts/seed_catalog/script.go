package script_seed_catalog

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/util/rekuest"
)

func run(ctx *cli.Context, deps CommandDeps, file string) error {
	log.Info().Str("file", file).Msg("running script")

	entries, err := load(file)
	if err != nil {
		return err
	}

	n, err := deps.CatalogService.SeedCodes(ctx.Context, entries)
	if err != nil {
		return errors.Wrap(err, "failed to seed catalog")
	}

	log.Info().
		Int("entries", len(entries)).
		Int64("affected", n).
		Msg("script finished")

	return nil
}

func load(file string) ([]*types.CatalogSeedEntry, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read seed file")
	}

	var entries []*types.CatalogSeedEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to decode seed file")
	}

	for i, e := range entries {
		if err := rekuest.Struct(e); err != nil {
			return nil, errors.Wrapf(err, "invalid seed entry #%d (%s)", i, e.Code)
		}
	}

	return entries, nil
}
