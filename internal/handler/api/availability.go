package api

import (
	"net/http"
	"strconv"
	"time"

	resdto "rental-storefront/internal/handler/dto/response"
	"rental-storefront/internal/pkg/errs"
	"rental-storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	checker *usecase.AvailabilityChecker
}

func NewAvailabilityHandler(checker *usecase.AvailabilityChecker) *AvailabilityHandler {
	return &AvailabilityHandler{checker: checker}
}

func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service ID format",
		})
		return
	}

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	quantity := 1
	if q := c.Query("quantity"); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil || quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Quantity must be a positive integer",
			})
			return
		}
	}

	result, err := h.checker.Check(c.Request.Context(), serviceID, date, quantity)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailability(serviceID, dateStr, result))
}
