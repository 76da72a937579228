package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/Domenick1991/gymbooking/internal/export"
	"github.com/Domenick1991/gymbooking/internal/service/bookings"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service bookings.BookingUseCase
}

type createBookingRequest struct {
	ClassID int64  `json:"class_id"`
	Date    string `json:"date"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type bookingResponse struct {
	Reference   string `json:"reference"`
	UserID      string `json:"user_id"`
	ClassID     int64  `json:"class_id"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	RefundCents int64  `json:"refund_cents"`
	Rating      *int   `json:"rating,omitempty"`
	Review      string `json:"review,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type waitlistResponse struct {
	Message          string `json:"message"`
	WaitlistPosition int    `json:"waitlist_position"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		Reference:   b.Reference,
		UserID:      b.UserID,
		ClassID:     b.ClassID,
		Date:        b.BookingDate,
		Status:      string(b.Status),
		AmountCents: b.AmountCents,
		RefundCents: b.RefundCents,
		Rating:      b.Rating,
		Review:      b.Review,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

func NewBookingHandler(service bookings.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:reference", h.get)
	router.POST("/:reference/cancel", h.cancel)
	router.POST("/:reference/complete", h.complete)
	router.POST("/:reference/no-show", h.noShow)
	router.POST("/:reference/review", h.review)
}

func (h *BookingHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("/bookings/export", h.exportAll)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.service.CreateBooking(c.Request.Context(), bookings.CreateBookingInput{
		UserID:  actorFrom(c).UserID,
		ClassID: req.ClassID,
		Date:    req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if outcome.Waitlisted {
		c.JSON(http.StatusOK, waitlistResponse{
			Message:          "Class is full. You have been added to the waitlist.",
			WaitlistPosition: outcome.WaitlistPosition,
		})
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(outcome.Booking))
}

func (h *BookingHandler) list(c *gin.Context) {
	result, err := h.service.ListUserBookings(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]bookingResponse, 0, len(result))
	for i := range result {
		responses = append(responses, toBookingResponse(&result[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(responses), "data": responses})
}

func (h *BookingHandler) get(c *gin.Context) {
	booking, err := h.service.GetBooking(c.Request.Context(), c.Param("reference"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.CancelBooking(c.Request.Context(), c.Param("reference"), actorFrom(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) complete(c *gin.Context) {
	booking, err := h.service.CompleteBooking(c.Request.Context(), c.Param("reference"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) noShow(c *gin.Context) {
	booking, err := h.service.MarkNoShow(c.Request.Context(), c.Param("reference"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.AddReview(c.Request.Context(), c.Param("reference"), actorFrom(c), req.Rating, req.Review)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) exportAll(c *gin.Context) {
	all, err := h.service.ListAllBookings(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	workbook, err := export.BookingsWorkbook(all)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
