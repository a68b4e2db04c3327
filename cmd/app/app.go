package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/highgarden7/dddorok-admin-backend/cmd/app/cli/runscript"
	"github.com/highgarden7/dddorok-admin-backend/cmd/app/server"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "dddorok-admin",
		Description: "Admin backend of the dddorok knitting pattern catalog. Built with Go, fiber, bun and go.uber.org/fx.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			runscript.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
