package api

import (
	"net/http"
	"strconv"

	reqdto "rental-storefront/internal/handler/dto/request"
	resdto "rental-storefront/internal/handler/dto/response"
	"rental-storefront/internal/pkg/errs"
	"rental-storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	ledger *usecase.InventoryLedger
}

func NewInventoryHandler(ledger *usecase.InventoryLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

func (h *InventoryHandler) AddBatch(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service ID format",
		})
		return
	}

	var req reqdto.AddBatchRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	input, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid unit cost format",
		})
		return
	}

	if err := h.ledger.AddBatch(c.Request.Context(), serviceID, input); err != nil {
		switch {
		case errs.Is(err, errs.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		case errs.Is(err, errs.ErrDuplicateBatch):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Batch with this ID already exists",
			})
		case errs.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusCreated)
}

func (h *InventoryHandler) GetExpiringBatches(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service ID format",
		})
		return
	}

	daysAhead := 7
	if d := c.Query("days_ahead"); d != "" {
		daysAhead, err = strconv.Atoi(d)
		if err != nil || daysAhead < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "days_ahead must be a non-negative integer",
			})
			return
		}
	}

	batches, err := h.ledger.GetExpiringBatches(c.Request.Context(), serviceID, daysAhead)
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

	c.JSON(http.StatusOK, resdto.FromBatches(batches))
}

func (h *InventoryHandler) GetExpiredBatches(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service ID format",
		})
		return
	}

	batches, err := h.ledger.GetExpiredBatches(c.Request.Context(), serviceID)
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

	c.JSON(http.StatusOK, resdto.FromBatches(batches))
}
