package server

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/app"
	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/app/appcontext"
)

func Run() {
	app.New(appcontext.Declare(appcontext.EnvServer), fx.Invoke(run)).Run()
}

func run(serviceApp *fiber.App, conf *appconfig.Config, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", conf.ServiceAddress)
			if err != nil {
				return err
			}

			log.Info().
				Str("evt.name", "server.listening").
				Str("address", conf.ServiceAddress).
				Msg("admin api is listening")

			go func() {
				if err := serviceApp.Listener(ln); err != nil {
					log.Error().Err(err).Msg("server terminated unexpectedly")
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if conf.DevMode {
				return nil
			}
			return serviceApp.Shutdown()
		},
	})
}
