package api

import (
	"net/http"

	resdto "rental-storefront/internal/handler/dto/response"
	"rental-storefront/internal/usecase"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	scheduler *usecase.DeliveryScheduler
}

func NewDeliveryHandler(scheduler *usecase.DeliveryScheduler) *DeliveryHandler {
	return &DeliveryHandler{scheduler: scheduler}
}

func (h *DeliveryHandler) GetTruckStatus(c *gin.Context) {
	status, err := h.scheduler.CurrentStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromTruckStatus(status))
}
