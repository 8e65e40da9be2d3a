package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/courtside/internal/booking"
)

type Handler struct {
	store  booking.Store
	logger zerolog.Logger
}

func NewHandler(store booking.Store, logger zerolog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.store.ListBookings(c.Request.Context(), req.ResourceIDs, req.From, req.To)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	items := make([]BookingResponse, len(records))
	for i := range records {
		items[i] = NewBookingResponse(&records[i])
	}
	c.JSON(http.StatusOK, ListBookingsResponse{Items: items, Total: len(items)})
}

func (h *Handler) Get(c *gin.Context) {
	rec, err := h.store.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to get booking")
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(rec))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := body.Record()
	if err := h.store.CreateBooking(c.Request.Context(), rec); err != nil {
		h.fail(c, err, "failed to create booking")
		return
	}

	h.logger.Info().Str("booking_id", rec.ID).Str("resource_id", rec.ResourceID).Msg("booking created")
	c.JSON(http.StatusCreated, NewBookingResponse(rec))
}

func (h *Handler) Move(c *gin.Context) {
	var body MoveBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.store.MoveBooking(ctx, id, body.ResourceID, body.StartTime.UTC(), body.EndTime.UTC()); err != nil {
		h.fail(c, err, "failed to move booking")
		return
	}

	rec, err := h.store.GetBooking(ctx, id)
	if err != nil {
		h.fail(c, err, "failed to get booking")
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(rec))
}

func (h *Handler) Cancel(c *gin.Context) {
	if err := h.store.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "failed to cancel booking")
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps store errors onto status codes. Unknown errors are logged and hidden.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, booking.ErrBookingOverlap),
		errors.Is(err, booking.ErrAlreadyCancelled),
		errors.Is(err, booking.ErrMutationRejected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidRange), errors.Is(err, booking.ErrEmptyResource):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
