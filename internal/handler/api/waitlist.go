package api

import (
	"net/http"

	reqdto "rental-storefront/internal/handler/dto/request"
	resdto "rental-storefront/internal/handler/dto/response"
	"rental-storefront/internal/pkg/errs"
	"rental-storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	queue *usecase.ReservationQueue
}

func NewWaitlistHandler(queue *usecase.ReservationQueue) *WaitlistHandler {
	return &WaitlistHandler{queue: queue}
}

func (h *WaitlistHandler) AcceptOffer(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid waitlist entry ID format",
		})
		return
	}

	var req reqdto.AcceptOfferRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	confirmed, err := h.queue.AcceptOffer(c.Request.Context(), entryID, req.CustomerID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Waitlist entry not found",
			})
		case errs.Is(err, errs.ErrNotOfferHolder):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Entry belongs to another customer",
			})
		case errs.Is(err, errs.ErrOfferNotFound):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Entry has no active offer",
			})
		case errs.Is(err, errs.ErrOfferExpired):
			c.JSON(http.StatusGone, gin.H{
				"error": "Offer has expired",
			})
		case errs.Is(err, errs.ErrAvailabilityConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Capacity is no longer available",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBooking(confirmed))
}
