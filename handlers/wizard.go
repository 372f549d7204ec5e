// File: handlers/wizard.go
package handlers

import (
	"errors"
	"net/http"

	"meytle/services/wizard"
	"meytle/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WizardHandler exposes the booking wizard over HTTP.
type WizardHandler struct {
	Service wizard.WizardService
	Logger  *zap.Logger
}

func NewWizardHandler(service wizard.WizardService, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{Service: service, Logger: logger}
}

// Open creates a new wizard session, optionally seeded with a pre-selected
// date and time window.
func (h *WizardHandler) Open(c *gin.Context) {
	var req wizard.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	session, err := h.Service.Open(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"sessionID": session.SessionID,
		"session":   session,
	})
}

// Get returns the session snapshot with the current quote.
func (h *WizardHandler) Get(c *gin.Context) {
	view, err := h.Service.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetFields applies a partial draft update.
func (h *WizardHandler) SetFields(c *gin.Context) {
	var patch wizard.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	session, err := h.Service.SetFields(c.Request.Context(), c.Param("sessionID"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Next validates the current step and advances, or submits from review.
func (h *WizardHandler) Next(c *gin.Context) {
	result, err := h.Service.Next(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if result.Submit != nil {
		c.JSON(http.StatusOK, gin.H{"submit": result.Submit})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": result.Session})
}

// Back steps toward the start without validation.
func (h *WizardHandler) Back(c *gin.Context) {
	session, err := h.Service.Back(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Submit confirms the booking from the review step.
func (h *WizardHandler) Submit(c *gin.Context) {
	result, err := h.Service.Submit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if result.Skipped {
		// A confirm while another is in flight is absorbed, not an error.
		c.JSON(http.StatusAccepted, gin.H{"state": result.State})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submit": result})
}

// Cancel discards the session.
func (h *WizardHandler) Cancel(c *gin.Context) {
	if err := h.Service.Cancel(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// DepositIntent creates a Stripe intent for the server-computed total.
func (h *WizardHandler) DepositIntent(c *gin.Context) {
	intent, err := h.Service.DepositIntent(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

// respondError maps wizard errors onto the HTTP edge: validation rejections
// become 422 with the offending field, gateway failures keep the wizard open
// with their structured message, and a missing session is 404.
func (h *WizardHandler) respondError(c *gin.Context, err error) {
	var rejection *wizard.StepRejection
	var gatewayErr *wizard.GatewayError
	switch {
	case errors.As(err, &rejection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": rejection.Reason,
			"field":   rejection.Field,
			"step":    rejection.Step,
		})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"message": gatewayErr.Message,
			"errors":  gatewayErr.Fields,
		})
	case errors.Is(err, wizard.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "booking session not found or expired"})
	default:
		h.Logger.Error("wizard request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "something went wrong", "")
	}
}
