package models

// SubmissionState tracks where a session's submit attempt stands. A failed
// submit keeps the session (and its draft) alive so the user can retry.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSucceeded  SubmissionState = "succeeded"
	SubmissionFailed     SubmissionState = "failed"
)

// Wizard step identifiers, in order.
const (
	StepSchedule = 1
	StepService  = 2
	StepLocation = 3
	StepReview   = 4

	TotalSteps = 4
)

// WizardSession holds one in-progress booking wizard between requests. It is
// JSON-marshalled into the session cache with a TTL; the session id is the
// cache key.
type WizardSession struct {
	SessionID string       `json:"sessionId"`
	UserID    string       `json:"userId"`
	Draft     BookingDraft `json:"draft"`
	Step      int          `json:"step"`

	SubmissionState SubmissionState `json:"submissionState"`
	BookingID       string          `json:"bookingId,omitempty"`
	LastError       string          `json:"lastError,omitempty"`

	// Per-step fetch bookkeeping, one sequence per data kind. A sequence
	// increments every time a fetch of that kind leaves for the session's
	// current step; a result arriving with an older sequence (or for a step
	// the user has left) is dropped. The kinds count separately so two
	// fetches leaving for the same step entry cannot invalidate each other.
	CatalogFetchSeq      uint64 `json:"catalogFetchSeq"`
	AvailabilityFetchSeq uint64 `json:"availabilityFetchSeq"`

	Catalog        []ServiceCategory `json:"catalog,omitempty"`
	CatalogFetched bool              `json:"catalogFetched"`

	DayAvailability     *DayAvailability `json:"dayAvailability,omitempty"`
	AvailabilityFetched bool             `json:"availabilityFetched"`
}
