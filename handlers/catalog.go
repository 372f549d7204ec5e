// File: handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"meytle/services/catalog"
	"meytle/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the priced service catalog.
type CatalogHandler struct {
	Service catalog.Service
	Logger  *zap.Logger
}

func NewCatalogHandler(service catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Service: service, Logger: logger}
}

// List returns service categories, optionally only active ones.
func (h *CatalogHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"

	categories, err := h.Service.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.Logger.Error("catalog listing failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load services", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": categories})
}

// CustomServices returns a companion's own custom service tags.
func (h *CatalogHandler) CustomServices(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid companion id", c.Param("id"))
		return
	}

	services, err := h.Service.CustomServices(c.Request.Context(), companionID)
	if err != nil {
		h.Logger.Error("custom services lookup failed",
			zap.Int("companionId", companionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load custom services", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"customServices": services})
}
