// File: handlers/availability.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"meytle/models"
	"meytle/services/availability"
	"meytle/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves companion availability lookups.
type AvailabilityHandler struct {
	Service availability.Service
	Logger  *zap.Logger
}

func NewAvailabilityHandler(service availability.Service, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Service: service, Logger: logger}
}

// Day returns the open and booked windows for one date.
func (h *AvailabilityHandler) Day(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid companion id", c.Param("id"))
		return
	}
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "date query parameter is required", "")
		return
	}

	day, err := h.Service.DayAvailability(c.Request.Context(), companionID, date)
	if err != nil {
		h.Logger.Error("availability lookup failed",
			zap.Int("companionId", companionID), zap.String("date", date), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load availability", "")
		return
	}
	c.JSON(http.StatusOK, day)
}

// Weekly returns the recurring per-weekday schedule.
func (h *AvailabilityHandler) Weekly(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid companion id", c.Param("id"))
		return
	}

	windows, err := h.Service.WeeklySchedule(c.Request.Context(), companionID)
	if err != nil {
		h.Logger.Error("weekly schedule lookup failed",
			zap.Int("companionId", companionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load weekly schedule", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": windows})
}

// SetWeekly replaces the companion's recurring schedule wholesale.
func (h *AvailabilityHandler) SetWeekly(c *gin.Context) {
	companionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid companion id", c.Param("id"))
		return
	}

	var req struct {
		Schedule []models.WeeklyWindow `json:"schedule" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Service.ReplaceWeeklySchedule(c.Request.Context(), companionID, req.Schedule); err != nil {
		if errors.Is(err, availability.ErrInvalidSchedule) {
			utils.JSONError(c, http.StatusBadRequest, "invalid weekly schedule", err.Error())
			return
		}
		h.Logger.Error("weekly schedule update failed",
			zap.Int("companionId", companionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to update weekly schedule", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": req.Schedule})
}
