package cli

import (
	"context"

	"go.uber.org/fx"

	"github.com/highgarden7/dddorok-admin-backend/internal/app"
	"github.com/highgarden7/dddorok-admin-backend/internal/app/appcontext"
)

// Start builds the application graph for a one-off command and runs its
// start hooks.
func Start(module fx.Option) {
	if err := app.New(appcontext.Declare(appcontext.EnvCLI), module).Start(context.Background()); err != nil {
		panic(err)
	}
}
