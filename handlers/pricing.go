package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"autoshine/models"
	"autoshine/services/pricing"
	"autoshine/services/promo"
	"autoshine/utils"
)

// PricingHandler exposes quotes and promo validation.
type PricingHandler struct {
	pricer    *pricing.Engine
	validator promo.Validator
}

func NewPricingHandler(pricer *pricing.Engine, validator promo.Validator) *PricingHandler {
	return &PricingHandler{pricer: pricer, validator: validator}
}

// Quote prices a cart without persisting anything.
func (h *PricingHandler) Quote(c *gin.Context) {
	var input struct {
		Services  []models.CartItem `json:"services"`
		Addons    []models.CartItem `json:"addons"`
		Frequency models.Frequency  `json:"frequency"`
		Date      string            `json:"date"` // optional, defaults to today
		PromoCode string            `json:"promoCode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	at := time.Now()
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date must be an ISO date")
			return
		}
		at = parsed
	}
	if input.Frequency == "" {
		input.Frequency = models.FrequencyOneTime
	}

	breakdown := h.pricer.CalculateTotalPrice(input.Services, input.Addons, input.Frequency, at)

	if input.PromoCode != "" {
		result, err := h.validator.ValidatePromoCode(input.PromoCode, breakdown.DiscountedSubtotal)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
			return
		}
		if result.Valid {
			breakdown = h.pricer.ApplyPromo(breakdown, input.PromoCode, result.DiscountAmount)
		} else {
			c.JSON(http.StatusOK, gin.H{"breakdown": breakdown, "promo": result})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// ValidatePromo is the standalone promo check.
func (h *PricingHandler) ValidatePromo(c *gin.Context) {
	var input struct {
		Code     string  `json:"code"`
		Subtotal float64 `json:"subtotal"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.validator.ValidatePromoCode(input.Code, input.Subtotal)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
