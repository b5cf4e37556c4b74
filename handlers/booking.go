package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autoshine/services/booking"
	"autoshine/utils"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	svc    booking.BookingService
	logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

// CreateBooking handles customer checkout.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.svc.CreateBooking(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.svc.GetBooking(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) ListUserBookings(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "userId is required")
		return
	}
	bookings, err := h.svc.ListUserBookings(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CancelBooking handles customer cancellation and returns the refund quote.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var input struct {
		UserID string `json:"userId"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, quote, err := h.svc.CancelBooking(c.Param("id"), input.UserID, input.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "refund": quote})
}

// RescheduleBooking handles the customer's answer to an open offer.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	var input struct {
		UserID  string `json:"userId"`
		NewDate string `json:"newDate"`
		NewTime string `json:"newTime"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.svc.RescheduleBooking(c.Param("id"), input.UserID, input.NewDate, input.NewTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// AddReview records the customer's post-completion rating.
func (h *BookingHandler) AddReview(c *gin.Context) {
	var input struct {
		UserID string `json:"userId"`
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.svc.AddReview(c.Param("id"), input.UserID, input.Rating, input.Review)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// GetAvailableSlots returns free slots for a date (query param "date").
func (h *BookingHandler) GetAvailableSlots(c *gin.Context) {
	slots, err := h.svc.GetAvailableSlots(c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *BookingHandler) GetRescheduleSlots(c *gin.Context) {
	slots, err := h.svc.GetRescheduleSlots(c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// --- Admin actions ---

func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	b, err := h.svc.AcceptBooking(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) RejectBooking(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.svc.RejectBooking(c.Param("id"), input.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) AdminCancelBooking(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.svc.AdminCancelBooking(c.Param("id"), input.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) ApproveReschedule(c *gin.Context) {
	b, err := h.svc.ApproveReschedule(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) StartBooking(c *gin.Context) {
	b, err := h.svc.StartBooking(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	var input struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.svc.CompleteBooking(c.Param("id"), input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	b, err := h.svc.MarkNoShow(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
