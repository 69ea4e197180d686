package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-storefront/internal/handler/api"
	"rental-storefront/internal/handler/middleware"
	"rental-storefront/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	availabilityHandler *api.AvailabilityHandler,
	bookingHandler *api.BookingHandler,
	waitlistHandler *api.WaitlistHandler,
	inventoryHandler *api.InventoryHandler,
	deliveryHandler *api.DeliveryHandler,
	adminHandler *api.AdminHandler,
) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, availabilityHandler, bookingHandler, waitlistHandler, inventoryHandler, deliveryHandler, adminHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	availabilityHandler *api.AvailabilityHandler,
	bookingHandler *api.BookingHandler,
	waitlistHandler *api.WaitlistHandler,
	inventoryHandler *api.InventoryHandler,
	deliveryHandler *api.DeliveryHandler,
	adminHandler *api.AdminHandler,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/availability", Handler: availabilityHandler.CheckAvailability},
		})

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: bookingHandler.CompleteBooking},
			})
		}

		services := apiGroup.Group("/services")
		{
			addRoutes(services, []route{
				{Method: http.MethodPost, Path: "/:id/batches", Handler: inventoryHandler.AddBatch},
				{Method: http.MethodGet, Path: "/:id/batches/expiring", Handler: inventoryHandler.GetExpiringBatches},
				{Method: http.MethodGet, Path: "/:id/batches/expired", Handler: inventoryHandler.GetExpiredBatches},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/waitlist/:id/accept", Handler: waitlistHandler.AcceptOffer},
			{Method: http.MethodGet, Path: "/delivery/status", Handler: deliveryHandler.GetTruckStatus},
			{Method: http.MethodPost, Path: "/admin/reconcile", Handler: adminHandler.RunReconciliation},
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
