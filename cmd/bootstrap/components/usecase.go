package components

import (
	"rental-storefront/internal/pkg/clock"
	"rental-storefront/internal/pkg/config"
	"rental-storefront/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		func(cfg config.Config) config.DeliveryConfig { return cfg.Delivery },
		func(cfg config.Config) config.WaitlistConfig { return cfg.Waitlist },
		usecase.NewAvailabilityChecker,
		usecase.NewInventoryLedger,
		usecase.NewDeliveryScheduler,
		usecase.NewReservationQueue,
		usecase.NewBookingUseCase,
		usecase.NewConsistencyReconciler,
	),
)
