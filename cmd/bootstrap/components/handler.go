package components

import (
	"rental-storefront/internal/handler"
	"rental-storefront/internal/handler/api"
	"rental-storefront/internal/handler/middleware"
	"rental-storefront/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cfg config.Config) *middleware.Logger {
			return middleware.NewLogger(cfg.Log)
		},
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		api.NewWaitlistHandler,
		api.NewInventoryHandler,
		api.NewDeliveryHandler,
		api.NewAdminHandler,
	),
	fx.Invoke(handler.NewRouter),
)
