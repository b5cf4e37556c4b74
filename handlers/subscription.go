package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoshine/services/booking"
	"autoshine/services/subscription"
	"autoshine/utils"
)

type SubscriptionHandler struct {
	service subscription.SubscriptionService
}

func NewSubscriptionHandler(service subscription.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req subscription.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sub, err := h.service.CreateSubscription(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub, err := h.service.GetSubscription(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) ListUserSubscriptions(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "userId is required")
		return
	}
	subs, err := h.service.ListUserSubscriptions(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

func (h *SubscriptionHandler) PauseSubscription(c *gin.Context) {
	sub, err := h.service.PauseSubscription(c.Param("id"), c.Query("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) ResumeSubscription(c *gin.Context) {
	sub, err := h.service.ResumeSubscription(c.Param("id"), c.Query("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	sub, err := h.service.CancelSubscription(c.Param("id"), c.Query("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ProcessDue triggers a due sweep on demand (admin). The cron schedule
// runs the same path on its own.
func (h *SubscriptionHandler) ProcessDue(c *gin.Context) {
	count, err := h.service.ProcessDueServices()
	if err != nil {
		if booking.IsStateConflict(err) || booking.IsValidation(err) {
			respondServiceError(c, err)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"materialized": count})
}
