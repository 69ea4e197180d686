package bootstrap

import (
	"context"

	"rental-storefront/internal/infra/notifier"
	"rental-storefront/internal/pkg/config"
	"rental-storefront/internal/usecase"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		fx.Annotate(
			NewNotifier,
			fx.As(new(usecase.Notifier)),
		),
	),
)

func NewNotifier(lc fx.Lifecycle, cfg config.Config) *notifier.KafkaNotifier {
	n := notifier.NewKafkaNotifier(cfg.Kafka)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return n.Close()
		},
	})

	return n
}
