package httpserver

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
	"github.com/rs/zerolog/log"

	"github.com/highgarden7/dddorok-admin-backend/internal/app/appconfig"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/bininfo"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/middlewares"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/observability"
)

var registerPromOnce sync.Once

func Create(conf *appconfig.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "dddorok admin backend",
		ServerHeader: fmt.Sprintf("dddorok/%s", bininfo.Version),
		ReadTimeout:  time.Second * 20,
		WriteTimeout: time.Second * 20,
		// multipart svg uploads are bounded by SvgMaxBytes in the service, this only caps the raw body
		BodyLimit: conf.SvgMaxBytes + 1<<20,
		// allow possibility for graceful shutdown, otherwise app#Shutdown() will block forever
		IdleTimeout:             conf.HTTPServerShutdownTimeout,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          conf.TrustedProxies,
		ErrorHandler:            ErrorHandler,
		Immutable:               true,
		JSONEncoder:             json.Marshal,
		JSONDecoder:             json.Unmarshal,
	})

	app.Use(favicon.New())
	app.Use(fibersentry.New(fibersentry.Config{
		Repanic: true,
		Timeout: time.Second * 5,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET, POST, PATCH, DELETE, OPTIONS",
		AllowHeaders:  "Content-Type, Authorization, X-Requested-With, sentry-trace",
		ExposeHeaders: "Content-Type, " + middlewares.RequestIDHeader,
	}))
	middlewares.Logger(app)

	app.Use(helmet.New(helmet.Config{
		HSTSMaxAge:         31356000,
		HSTSPreloadEnabled: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		PermissionPolicy:   "interest-cohort=()",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().Msgf("panic: %v\n%s\n", e, buf)
		},
	}))
	registerPromOnce.Do(func() {
		fiberprom := fiberprometheus.New(observability.ServiceName)
		fiberprom.RegisterAt(app, "/metrics")
		app.Use(fiberprom.Middleware)
	})

	if conf.TracingEnabled {
		app.Use(otelfiber.Middleware())
	}

	if conf.DevMode {
		log.Info().Msg("running in DEV mode")
		app.Use(pprof.New())
	} else {
		app.Use(middlewares.EnrichSentry())
	}

	return app
}
