package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"rental-storefront/cmd/bootstrap"
	"rental-storefront/internal/usecase"

	"go.uber.org/fx"
)

const (
	sweepInterval     = 15 * time.Minute
	reconcileInterval = time.Hour
)

// runSweeper drives the periodic maintenance loops: waitlist cleanup on a
// short cadence, full reconciliation on a longer one.
func runSweeper(lc fx.Lifecycle, queue *usecase.ReservationQueue, reconciler *usecase.ConsistencyReconciler) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go sweepLoop(ctx, queue)
			go reconcileLoop(ctx, reconciler)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

func sweepLoop(ctx context.Context, queue *usecase.ReservationQueue) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report, err := queue.CleanupExpired(ctx)
			if err != nil {
				slog.Error("waitlist cleanup failed", "error", err)
				continue
			}
			if report.LapsedOffers > 0 || report.StaleEntries > 0 || report.PurgedEntries > 0 {
				slog.Info("waitlist cleanup finished",
					"lapsed_offers", report.LapsedOffers,
					"stale_entries", report.StaleEntries,
					"purged_entries", report.PurgedEntries,
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func reconcileLoop(ctx context.Context, reconciler *usecase.ConsistencyReconciler) {
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report, err := reconciler.Reconcile(ctx)
			if err != nil {
				slog.Error("reconciliation failed", "error", err)
				continue
			}
			if len(report.Issues) > 0 {
				slog.Info("reconciliation finished",
					"issues", len(report.Issues),
					"fixes", len(report.Fixes),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func main() {
	app := fx.New(
		bootstrap.WorkerModule,
		fx.Invoke(
			runSweeper,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("worker failed to start", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("worker failed to stop cleanly", "error", err)
	}

	slog.Info("worker stopped")
}
