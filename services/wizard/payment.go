// File: services/wizard/payment.go
package wizard

import (
	"context"
	"fmt"
	"math"

	"meytle/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// DepositIntent creates a Stripe PaymentIntent for the session's recomputed
// total plus any extra amount. The amount is always derived server-side from
// the draft, never taken from the client.
func (s *DefaultWizardService) DepositIntent(ctx context.Context, sessionID string) (*models.PaymentIntent, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	hours, err := WindowHours(session.Draft.Window)
	if err != nil {
		return nil, &StepRejection{Step: models.StepSchedule, Field: "window", Reason: err.Error()}
	}
	quote := QuotePrice(hours, session.Draft.Service.HourlyRate, s.FeePct)

	amountCents := int64(math.Round((quote.Total + session.Draft.ExtraAmount) * 100))
	if amountCents <= 0 {
		return nil, &StepRejection{Step: models.StepReview, Field: "total", Reason: "nothing to charge for this booking"}
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(s.Currency),
	}
	params.AddMetadata("sessionId", session.SessionID)
	params.AddMetadata("companionId", fmt.Sprintf("%d", session.Draft.CompanionID))

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &models.PaymentIntent{
		ClientSecret: intent.ClientSecret,
		AmountCents:  amountCents,
		Currency:     s.Currency,
	}, nil
}
