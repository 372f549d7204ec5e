// File: handlers/booking.go
package handlers

import (
	"net/http"

	bookingRepo "meytle/database/repository/booking"
	"meytle/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves confirmed booking records.
type BookingHandler struct {
	Repo   bookingRepo.BookingRepository
	Logger *zap.Logger
}

func NewBookingHandler(repo bookingRepo.BookingRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Repo: repo, Logger: logger}
}

// GetByID returns one confirmed booking.
func (h *BookingHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	booking, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Logger.Warn("booking lookup failed", zap.String("bookingId", id), zap.Error(err))
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
