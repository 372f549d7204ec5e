// File: services/wizard/steps.go
package wizard

import (
	"context"
	"time"

	"meytle/models"
	"meytle/utils"

	"go.uber.org/zap"
)

// Next validates the current step and advances on pass. On the review step
// it submits instead of advancing. A rejection comes back as the error with
// the step and draft untouched.
func (s *DefaultWizardService) Next(ctx context.Context, sessionID string) (*StepResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if rej := s.Rules.Validate(session.Step, session.Draft, catalogEmpty(session)); rej != nil {
		return nil, rej
	}

	if session.Step == models.StepReview {
		result, err := s.submit(ctx, session)
		if err != nil {
			return nil, err
		}
		return &StepResult{Submit: result}, nil
	}

	session.Step++
	s.enterStep(session)
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return &StepResult{Session: session}, nil
}

// catalogEmpty is only decidable once the catalog fetch has resolved; until
// then the catalog is treated as populated so the fallback cannot fire early.
func catalogEmpty(session *models.WizardSession) bool {
	return session.CatalogFetched && len(session.Catalog) == 0
}

// enterStep runs the on-entry side effects for the session's current step:
// at most one fetch per step entry, and none at all when the step's data is
// already cached for this session.
func (s *DefaultWizardService) enterStep(session *models.WizardSession) {
	switch session.Step {
	case models.StepSchedule:
		s.fetchAvailability(session)
	case models.StepService:
		s.fetchCatalog(session)
	}
}

// fetchToken identifies one step-entry fetch of one data kind. A result may
// only be applied while the session is still on the same step and the kind's
// sequence has not moved past the token. Each kind keeps its own sequence:
// a seeded open can send the availability and catalog fetches out for the
// same step entry, and neither may invalidate the other.
type fetchToken struct {
	SessionID string
	Step      int
	Seq       uint64
}

// beginCatalogFetch records that a catalog fetch is leaving for the
// session's current step. The bumped sequence is persisted by the caller's
// session save, so it reaches the cache together with the step change.
func (s *DefaultWizardService) beginCatalogFetch(session *models.WizardSession) fetchToken {
	session.CatalogFetchSeq++
	return fetchToken{
		SessionID: session.SessionID,
		Step:      session.Step,
		Seq:       session.CatalogFetchSeq,
	}
}

// beginAvailabilityFetch is the availability counterpart of
// beginCatalogFetch.
func (s *DefaultWizardService) beginAvailabilityFetch(session *models.WizardSession) fetchToken {
	session.AvailabilityFetchSeq++
	return fetchToken{
		SessionID: session.SessionID,
		Step:      session.Step,
		Seq:       session.AvailabilityFetchSeq,
	}
}

func (s *DefaultWizardService) fetchCatalog(session *models.WizardSession) {
	if s.Catalog == nil || session.CatalogFetched {
		return
	}
	token := s.beginCatalogFetch(session)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		categories, err := s.Catalog.List(ctx, true)
		if err != nil {
			utils.GetLogger().Warn("catalog fetch failed",
				zap.String("sessionId", token.SessionID), zap.Error(err))
			return
		}
		if err := s.applyCatalog(ctx, token, categories); err != nil {
			utils.GetLogger().Warn("failed to apply catalog result",
				zap.String("sessionId", token.SessionID), zap.Error(err))
		}
	}()
}

func (s *DefaultWizardService) fetchAvailability(session *models.WizardSession) {
	if s.Availability == nil || session.AvailabilityFetched || session.Draft.Date == "" {
		return
	}
	token := s.beginAvailabilityFetch(session)
	companionID := session.Draft.CompanionID
	date := session.Draft.Date
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		day, err := s.Availability.DayAvailability(ctx, companionID, date)
		if err != nil {
			utils.GetLogger().Warn("availability fetch failed",
				zap.String("sessionId", token.SessionID), zap.Error(err))
			return
		}
		if err := s.applyAvailability(ctx, token, day); err != nil {
			utils.GetLogger().Warn("failed to apply availability result",
				zap.String("sessionId", token.SessionID), zap.Error(err))
		}
	}()
}

// applyCatalog attaches a catalog result to the session unless the session
// has moved on since the fetch left. Late results for an abandoned step
// entry are dropped silently. The write runs under updateSession so a
// concurrent draft edit is never reverted by a background apply.
func (s *DefaultWizardService) applyCatalog(ctx context.Context, token fetchToken, categories []models.ServiceCategory) error {
	return s.updateSession(ctx, token.SessionID, func(session *models.WizardSession) bool {
		if stale(session, token, session.CatalogFetchSeq) {
			utils.GetLogger().Debug("dropping stale catalog result",
				zap.String("sessionId", token.SessionID),
				zap.Int("fetchStep", token.Step), zap.Int("currentStep", session.Step))
			return false
		}
		session.Catalog = categories
		session.CatalogFetched = true
		return true
	})
}

// applyAvailability is the availability counterpart of applyCatalog.
func (s *DefaultWizardService) applyAvailability(ctx context.Context, token fetchToken, day *models.DayAvailability) error {
	return s.updateSession(ctx, token.SessionID, func(session *models.WizardSession) bool {
		if stale(session, token, session.AvailabilityFetchSeq) {
			utils.GetLogger().Debug("dropping stale availability result",
				zap.String("sessionId", token.SessionID),
				zap.Int("fetchStep", token.Step), zap.Int("currentStep", session.Step))
			return false
		}
		session.DayAvailability = day
		session.AvailabilityFetched = true
		return true
	})
}

func stale(session *models.WizardSession, token fetchToken, currentSeq uint64) bool {
	return session.Step != token.Step || currentSeq != token.Seq
}
