package meta

import "go.uber.org/fx"

// Module registers the unauthenticated probes and the operational admin routes.
func Module() fx.Option {
	return fx.Module("controller.meta", fx.Invoke(
		RegisterIndex,
		RegisterMeta,
		RegisterAdmin,
	))
}
