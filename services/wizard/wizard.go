// File: services/wizard/wizard.go
package wizard

import (
	"context"

	"meytle/models"

	"github.com/google/uuid"
)

// Open creates a new wizard session seeded from any caller-supplied
// defaults, assigns it a session id, and stores it in the session cache.
func (s *DefaultWizardService) Open(ctx context.Context, req OpenRequest) (*models.WizardSession, error) {
	if req.CompanionID <= 0 {
		return nil, &StepRejection{Step: models.StepSchedule, Field: "companionId", Reason: "companion is required"}
	}

	session := &models.WizardSession{
		SessionID:       uuid.New().String(),
		UserID:          req.UserID,
		Step:            models.StepSchedule,
		SubmissionState: models.SubmissionIdle,
		Draft: models.BookingDraft{
			CompanionID: req.CompanionID,
			MeetingType: models.MeetingInPerson,
		},
	}
	if req.MeetingType != "" {
		session.Draft.SetMeetingType(req.MeetingType)
	}
	if req.Date != "" {
		session.Draft.SetDate(req.Date)
	}
	if req.Window != nil {
		session.Draft.SetTimeWindow(*req.Window)
	}

	s.enterStep(session)
	if s.Rules.ServiceStep == models.StepSchedule {
		// This variant validates the service during the schedule step, so the
		// catalog is needed up front.
		s.fetchCatalog(session)
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the current session together with a price quote when the draft
// has enough data to price.
func (s *DefaultWizardService) Get(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := &SessionView{Session: session}
	if hours, err := WindowHours(session.Draft.Window); err == nil {
		quote := QuotePrice(hours, session.Draft.Service.HourlyRate, s.FeePct)
		view.Quote = &quote
	}
	return view, nil
}

// SetFields applies a partial draft update through the draft setters. Field
// updates are always allowed regardless of the current step, so the user can
// edit earlier answers while reviewing.
func (s *DefaultWizardService) SetFields(ctx context.Context, sessionID string, patch DraftPatch) (*models.WizardSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft := &session.Draft

	if patch.Date != nil && *patch.Date != draft.Date {
		draft.SetDate(*patch.Date)
		// A new date invalidates the cached day availability.
		session.DayAvailability = nil
		session.AvailabilityFetched = false
		if session.Step == models.StepSchedule {
			s.fetchAvailability(session)
		}
	}
	if patch.Window != nil {
		draft.SetTimeWindow(*patch.Window)
	}
	if patch.CategoryID != nil {
		category, err := s.resolveCategory(ctx, session, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		draft.SetCatalogService(*category)
	}
	if patch.CustomName != nil {
		description := ""
		if patch.CustomDescription != nil {
			description = *patch.CustomDescription
		}
		draft.SetCustomService(*patch.CustomName, description)
	}
	if patch.MeetingType != nil {
		draft.SetMeetingType(*patch.MeetingType)
	}
	if patch.Location != nil {
		draft.SetLocation(patch.Location)
	}
	if patch.ExtraAmount != nil {
		if *patch.ExtraAmount < 0 {
			return nil, &StepRejection{Step: session.Step, Field: "extraAmount", Reason: "extra amount cannot be negative"}
		}
		draft.SetExtraAmount(*patch.ExtraAmount)
	}
	if patch.SpecialRequests != nil {
		if len(*patch.SpecialRequests) > maxSpecialRequestLen {
			return nil, &StepRejection{Step: session.Step, Field: "specialRequests", Reason: "special requests text is too long"}
		}
		draft.SetSpecialRequests(*patch.SpecialRequests)
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

const maxSpecialRequestLen = 1000

// resolveCategory resolves a category id against the session's cached
// catalog first, falling back to the catalog provider.
func (s *DefaultWizardService) resolveCategory(ctx context.Context, session *models.WizardSession, id int) (*models.ServiceCategory, error) {
	for i := range session.Catalog {
		if session.Catalog[i].ID == id {
			return &session.Catalog[i], nil
		}
	}
	if s.Catalog == nil {
		return nil, &StepRejection{Step: models.StepService, Field: "categoryId", Reason: "unknown service category"}
	}
	category, err := s.Catalog.Get(ctx, id)
	if err != nil {
		return nil, &StepRejection{Step: models.StepService, Field: "categoryId", Reason: "unknown service category"}
	}
	return category, nil
}

// Back moves one step toward the start, floor 1. It never validates and
// never refetches data already cached for this session.
func (s *DefaultWizardService) Back(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step > models.StepSchedule {
		session.Step--
		s.enterStep(session)
		if err := s.saveSession(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Cancel discards the session; the draft does not survive the wizard.
func (s *DefaultWizardService) Cancel(ctx context.Context, sessionID string) error {
	if _, err := s.loadSession(ctx, sessionID); err != nil {
		return err
	}
	s.dropSession(ctx, sessionID)
	return nil
}
