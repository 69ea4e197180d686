package bootstrap

import (
	"context"

	"rental-storefront/internal/infra/lock"
	"rental-storefront/internal/pkg/config"
	"rental-storefront/internal/usecase"

	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewLockStore,
		fx.Annotate(
			NewLockManager,
			fx.As(new(usecase.LockManager)),
		),
	),
)

func NewLockStore(lc fx.Lifecycle, cfg config.Config) *lock.RedisStore {
	store := lock.NewRedisStore(cfg.Redis)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})

	return store
}

func NewLockManager(store *lock.RedisStore, cfg config.Config) *lock.Manager {
	return lock.NewManager(store, cfg.Lock)
}
