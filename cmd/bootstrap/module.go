package bootstrap

import (
	"rental-storefront/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	LockModule,
	NotifierModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)

// WorkerModule wires everything the background sweeper needs, without the
// HTTP surface.
var WorkerModule = fx.Options(
	ConfigModule,
	DBModule,
	LockModule,
	NotifierModule,
	components.RepositoryModule,
	components.UseCaseModule,
)
