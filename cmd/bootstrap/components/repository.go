package components

import (
	repo_impl "rental-storefront/internal/infra/repository"
	"rental-storefront/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewServiceRepository,
			fx.As(new(usecase.ServiceRepository)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(usecase.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewWaitlistRepository,
			fx.As(new(usecase.WaitlistRepository)),
		),
		fx.Annotate(
			repo_impl.NewCustomerDirectory,
			fx.As(new(usecase.CustomerDirectory)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRecordStore,
			fx.As(new(usecase.PaymentRecordStore)),
		),
	),
)
