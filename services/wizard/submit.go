// File: services/wizard/submit.go
package wizard

import (
	"context"

	"meytle/models"
	"meytle/utils"

	"go.uber.org/zap"
)

// Submit finalizes the wizard: revalidates every step, recomputes the price,
// and hands the serialized draft to the booking gateway under the submission
// guard. Success closes the wizard (the session is deleted); failure leaves
// the session and its draft intact for a manual retry.
func (s *DefaultWizardService) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, session)
}

func (s *DefaultWizardService) submit(ctx context.Context, session *models.WizardSession) (*SubmitResult, error) {
	// Nothing invalid may reach the network; every gate runs again here so a
	// draft edited out from under a later step cannot slip through.
	empty := catalogEmpty(session)
	for step := models.StepSchedule; step <= models.StepReview; step++ {
		if rej := s.Rules.Validate(step, session.Draft, empty); rej != nil {
			return nil, rej
		}
	}

	hours, err := WindowHours(session.Draft.Window)
	if err != nil {
		return nil, &StepRejection{Step: models.StepSchedule, Field: "window", Reason: err.Error()}
	}
	// Derived prices are never stored on the draft; recompute at the moment
	// of submission.
	quote := QuotePrice(hours, session.Draft.Service.HourlyRate, s.FeePct)
	submission := buildSubmission(session, quote)

	var bookingID string
	skipped, submitErr := s.guard.attempt(session.SessionID, func() error {
		session.SubmissionState = models.SubmissionSubmitting
		if err := s.saveSession(ctx, session); err != nil {
			return err
		}
		id, err := s.Gateway.SubmitBooking(ctx, submission)
		if err != nil {
			return err
		}
		bookingID = id
		return nil
	})

	if skipped {
		// A duplicate confirm is not an error; it is absorbed.
		return &SubmitResult{State: models.SubmissionSubmitting, Quote: quote, Skipped: true}, nil
	}

	if submitErr != nil {
		session.SubmissionState = models.SubmissionFailed
		session.LastError = submitErr.Error()
		if err := s.saveSession(ctx, session); err != nil {
			utils.GetLogger().Warn("failed to persist failed submission state",
				zap.String("sessionId", session.SessionID), zap.Error(err))
		}
		return nil, submitErr
	}

	session.SubmissionState = models.SubmissionSucceeded
	session.BookingID = bookingID
	s.dropSession(ctx, session.SessionID)

	utils.GetLogger().Info("booking submitted",
		zap.String("sessionId", session.SessionID),
		zap.String("bookingId", bookingID))

	return &SubmitResult{
		BookingID: bookingID,
		Quote:     quote,
		State:     models.SubmissionSucceeded,
	}, nil
}

// buildSubmission serializes a validated draft into the gateway payload,
// resolving the service selection into either a category id or a
// custom-service object and dropping the location for virtual meetings.
func buildSubmission(session *models.WizardSession, quote PriceQuote) models.BookingSubmission {
	draft := session.Draft
	submission := models.BookingSubmission{
		CompanionID:     draft.CompanionID,
		UserID:          session.UserID,
		Date:            draft.Date,
		StartTime:       draft.Window.Start,
		EndTime:         draft.Window.End,
		DurationHours:   quote.Hours,
		ServiceName:     draft.Service.Name,
		MeetingType:     draft.MeetingType,
		SpecialRequests: draft.SpecialRequests,
		ExtraAmount:     draft.ExtraAmount,
		Subtotal:        quote.Subtotal,
		Fee:             quote.Fee,
		Total:           quote.Total,
	}
	switch draft.Service.Kind {
	case models.ServiceCatalog:
		submission.CategoryID = draft.Service.CategoryID
	case models.ServiceCustom:
		submission.CustomService = &models.CustomServiceInput{
			Name:        draft.Service.Name,
			Description: draft.Service.Description,
		}
	}
	if draft.MeetingType == models.MeetingInPerson {
		submission.Location = draft.Location
	}
	return submission
}
