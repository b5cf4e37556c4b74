package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogRepo "autoshine/database/repository/catalog"
	"autoshine/models"
	"autoshine/services/catalog"
	"autoshine/utils"
)

type CatalogHandler struct {
	service catalog.CatalogService
}

func NewCatalogHandler(service catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	offerings, err := h.service.ListActive()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": offerings})
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	offering, err := h.service.GetServiceDetails(c.Param("name"))
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Not found", "no such service")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, offering)
}

// UpsertService creates or replaces a catalog entry (admin).
func (h *CatalogHandler) UpsertService(c *gin.Context) {
	var offering models.ServiceOffering
	if err := c.ShouldBindJSON(&offering); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if offering.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "name is required")
		return
	}
	if offering.BasePrice < 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "basePrice must not be negative")
		return
	}

	if err := h.service.UpsertOffering(&offering); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, offering)
}
