package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterWizardRoutes registers all endpoints for the booking wizard.
func RegisterWizardRoutes(r *gin.Engine, hb *HandlerBundle) {
	wizard := r.Group("/api/wizard")
	{
		wizard.POST("", hb.Wizard.Open)                             // open a session (seeded draft)
		wizard.GET("/:sessionID", hb.Wizard.Get)                    // current step, draft, quote
		wizard.PATCH("/:sessionID", hb.Wizard.SetFields)            // set draft fields
		wizard.POST("/:sessionID/next", hb.Wizard.Next)             // validate and advance (or submit)
		wizard.POST("/:sessionID/back", hb.Wizard.Back)             // step back, no validation
		wizard.POST("/:sessionID/submit", hb.Wizard.Submit)         // confirm from review
		wizard.POST("/:sessionID/payment-intent", hb.Wizard.DepositIntent)
		wizard.DELETE("/:sessionID", hb.Wizard.Cancel)              // discard the draft
	}
}
