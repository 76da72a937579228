package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/Domenick1991/gymbooking/internal/service/bookings"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP statuses. Anything unrecognized
// becomes a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
	case errors.Is(err, domain.ErrDuplicateBooking):
		c.JSON(http.StatusBadRequest, gin.H{"error": "you already have a booking for this class on this date"})
	case errors.Is(err, domain.ErrAlreadyReviewed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking already reviewed"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "booking status does not allow this operation"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.FieldErrors})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// actorFrom reads the caller identity resolved by the auth gateway in front
// of this service.
func actorFrom(c *gin.Context) bookings.Actor {
	return bookings.Actor{
		UserID: c.GetHeader("X-User-ID"),
		Admin:  c.GetHeader("X-User-Role") == "admin",
	}
}
