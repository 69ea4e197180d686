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

type BookingHandler struct {
	bookings *usecase.BookingUseCase
}

func NewBookingHandler(bookings *usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	date, err := req.ParseDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	urgency, ok := req.ParseUrgency()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid urgency tier",
		})
		return
	}

	input := usecase.ReserveOrQueueInput{
		CustomerID:              req.CustomerID,
		ServiceID:               req.ServiceID,
		Quantity:                req.Quantity,
		Date:                    date,
		Urgency:                 urgency,
		Notes:                   req.Notes,
		DeliveryStart:           req.DeliveryStart,
		DeliveryDurationMinutes: req.DeliveryDurationMinutes,
	}

	outcome, err := h.bookings.ReserveOrQueue(c.Request.Context(), input)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		case errs.Is(err, errs.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Customer not found",
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

	status := http.StatusCreated
	if outcome.QueuedEntry != nil {
		status = http.StatusAccepted
	}
	c.JSON(status, resdto.FromReserveOutcome(outcome))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	cancelled, err := h.bookings.CancelBooking(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errs.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking cannot be cancelled in its current state",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBooking(cancelled))
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	completed, err := h.bookings.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errs.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking cannot be completed in its current state",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBooking(completed))
}
