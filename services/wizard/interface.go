package wizard

import (
	"context"
	"time"

	"meytle/models"
	"meytle/services/availability"
	"meytle/services/catalog"

	"github.com/go-redis/redis/v8"
)

// WizardService drives the multi-step booking wizard: one session per open
// wizard, guarded step transitions, derived pricing, and an at-most-once
// submission to the booking gateway.
type WizardService interface {
	Open(ctx context.Context, req OpenRequest) (*models.WizardSession, error)
	Get(ctx context.Context, sessionID string) (*SessionView, error)
	SetFields(ctx context.Context, sessionID string, patch DraftPatch) (*models.WizardSession, error)
	Next(ctx context.Context, sessionID string) (*StepResult, error)
	Back(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Submit(ctx context.Context, sessionID string) (*SubmitResult, error)
	Cancel(ctx context.Context, sessionID string) error
	DepositIntent(ctx context.Context, sessionID string) (*models.PaymentIntent, error)
}

// OpenRequest seeds a new wizard session, e.g. with a slot the user picked
// from an availability grid.
type OpenRequest struct {
	CompanionID int                `json:"companionId" binding:"required"`
	UserID      string             `json:"userId"`
	Date        string             `json:"date,omitempty"`
	Window      *models.TimeWindow `json:"window,omitempty"`
	MeetingType models.MeetingType `json:"meetingType,omitempty"`
}

// DraftPatch is a partial draft update; nil fields are left untouched.
// Selecting a catalog category and naming a custom service are mutually
// exclusive; whichever arrives last wins and clears the other.
type DraftPatch struct {
	Date              *string             `json:"date,omitempty"`
	Window            *models.TimeWindow  `json:"window,omitempty"`
	CategoryID        *int                `json:"categoryId,omitempty"`
	CustomName        *string             `json:"customName,omitempty"`
	CustomDescription *string             `json:"customDescription,omitempty"`
	MeetingType       *models.MeetingType `json:"meetingType,omitempty"`
	Location          *models.Location    `json:"location,omitempty"`
	ExtraAmount       *float64            `json:"extraAmount,omitempty"`
	SpecialRequests   *string             `json:"specialRequests,omitempty"`
}

// StepResult reports the outcome of a forward transition. Reaching next on
// the review step submits instead of advancing, so exactly one of Session or
// Submit is set.
type StepResult struct {
	Session *models.WizardSession `json:"session,omitempty"`
	Submit  *SubmitResult         `json:"submit,omitempty"`
}

// SubmitResult is the outcome of a submission attempt. Skipped marks an
// attempt absorbed by the guard while another was in flight.
type SubmitResult struct {
	BookingID string                 `json:"bookingId,omitempty"`
	Quote     PriceQuote             `json:"quote"`
	State     models.SubmissionState `json:"state"`
	Skipped   bool                   `json:"-"`
}

// SessionView is a session snapshot plus the quote derived from it, when the
// draft has enough data to price.
type SessionView struct {
	Session *models.WizardSession `json:"session"`
	Quote   *PriceQuote           `json:"quote,omitempty"`
}

// DefaultWizardService implements WizardService on top of a Redis session
// cache and the availability/catalog providers.
type DefaultWizardService struct {
	Rules        Rules
	FeePct       float64
	Currency     string
	SessionTTL   time.Duration
	Cache        *redis.Client
	Gateway      BookingGateway
	Availability availability.Service
	Catalog      catalog.Service

	guard *submissionGuard
}

// NewWizardService wires a DefaultWizardService with its submission guard.
func NewWizardService(rules Rules, feePct float64, currency string, ttl time.Duration, cache *redis.Client, gateway BookingGateway, avail availability.Service, cat catalog.Service) *DefaultWizardService {
	return &DefaultWizardService{
		Rules:        rules,
		FeePct:       feePct,
		Currency:     currency,
		SessionTTL:   ttl,
		Cache:        cache,
		Gateway:      gateway,
		Availability: avail,
		Catalog:      cat,
		guard:        newSubmissionGuard(),
	}
}
