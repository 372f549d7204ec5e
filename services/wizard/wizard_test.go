package wizard

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"meytle/models"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 30 * time.Minute

// fakeGateway records submissions and can block to simulate a slow backend.
type fakeGateway struct {
	mu      sync.Mutex
	calls   int
	last    models.BookingSubmission
	id      string
	err     error
	entered chan struct{}
	release chan struct{}
}

func (g *fakeGateway) SubmitBooking(ctx context.Context, submission models.BookingSubmission) (string, error) {
	g.mu.Lock()
	g.calls++
	g.last = submission
	entered, release := g.entered, g.release
	g.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if release != nil {
		<-release
	}
	return g.id, g.err
}

func (g *fakeGateway) submissions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newTestService(t *testing.T, gateway BookingGateway) (*DefaultWizardService, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	svc := NewWizardService(testRules(), 0.10, "usd", testTTL, db, gateway, nil, nil)
	return svc, mock
}

func marshalSession(t *testing.T, session *models.WizardSession) string {
	t.Helper()
	data, err := json.Marshal(session)
	require.NoError(t, err)
	return string(data)
}

func scheduleSession(id string) *models.WizardSession {
	return &models.WizardSession{
		SessionID:       id,
		UserID:          "user-1",
		Step:            models.StepSchedule,
		SubmissionState: models.SubmissionIdle,
		Draft:           validDraft(),
	}
}

func reviewSession(id string) *models.WizardSession {
	session := scheduleSession(id)
	session.Step = models.StepReview
	return session
}

func TestOpenSeedsSession(t *testing.T) {
	svc, mock := newTestService(t, nil)
	mock.Regexp().ExpectSet(`.*`, `.*`, testTTL).SetVal("OK")

	window := models.TimeWindow{Start: "18:00", End: "20:00"}
	session, err := svc.Open(context.Background(), OpenRequest{
		CompanionID: 7,
		UserID:      "user-1",
		Date:        "2026-09-12",
		Window:      &window,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, models.StepSchedule, session.Step)
	assert.Equal(t, models.SubmissionIdle, session.SubmissionState)
	assert.Equal(t, 7, session.Draft.CompanionID)
	assert.Equal(t, "2026-09-12", session.Draft.Date)
	assert.Equal(t, window, session.Draft.Window)
	assert.Equal(t, models.MeetingInPerson, session.Draft.MeetingType, "in-person is the default")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRequiresCompanion(t *testing.T) {
	svc, mock := newTestService(t, nil)

	_, err := svc.Open(context.Background(), OpenRequest{})
	var rej *StepRejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "companionId", rej.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingSession(t *testing.T) {
	svc, mock := newTestService(t, nil)
	mock.ExpectGet("gone").RedisNil()

	_, err := svc.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReturnsQuote(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))

	view, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, view.Quote)
	assert.Equal(t, 2.0, view.Quote.Hours)
	assert.Equal(t, 80.00, view.Quote.Subtotal)
	assert.Equal(t, 8.00, view.Quote.Fee)
	assert.Equal(t, 88.00, view.Quote.Total)
}

func TestNextRejectionLeavesSessionUntouched(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	session.Draft.Date = ""
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))

	_, err := svc.Next(context.Background(), "sess-1")
	var rej *StepRejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, models.StepSchedule, rej.Step)
	assert.Equal(t, "date", rej.Field)

	// No write happened, so the stored session keeps its step and draft.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextAdvancesOnValidStep(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.Regexp().ExpectSet("sess-1", `.*"step":2.*`, testTTL).SetVal("OK")

	result, err := svc.Next(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Equal(t, models.StepService, result.Session.Step)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackStopsAtFirstStep(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))

	got, err := svc.Back(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepSchedule, got.Step)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackStepsWithoutValidation(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	session.Step = models.StepLocation
	session.Draft.Date = "" // an invalid draft must not block going back
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.Regexp().ExpectSet("sess-1", `.*"step":2.*`, testTTL).SetVal("OK")

	got, err := svc.Back(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepService, got.Step)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFieldsSelectsCatalogCategory(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	session.Draft.Service = models.ServiceSelection{}
	session.Catalog = []models.ServiceCategory{
		{ID: 3, Name: "Dinner date", BasePrice: 40, IsActive: true},
	}
	session.CatalogFetched = true
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.Regexp().ExpectSet("sess-1", `.*"kind":"catalog".*`, testTTL).SetVal("OK")

	categoryID := 3
	got, err := svc.SetFields(context.Background(), "sess-1", DraftPatch{CategoryID: &categoryID})
	require.NoError(t, err)
	assert.Equal(t, models.ServiceCatalog, got.Draft.Service.Kind)
	assert.Equal(t, 3, got.Draft.Service.CategoryID)
	assert.Equal(t, "Dinner date", got.Draft.Service.Name)
	assert.Equal(t, 40.0, got.Draft.Service.HourlyRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFieldsRejectsUnknownCategory(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))

	categoryID := 99
	_, err := svc.SetFields(context.Background(), "sess-1", DraftPatch{CategoryID: &categoryID})
	var rej *StepRejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "categoryId", rej.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFieldsRejectsNegativeExtraAmount(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))

	amount := -5.0
	_, err := svc.SetFields(context.Background(), "sess-1", DraftPatch{ExtraAmount: &amount})
	var rej *StepRejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "extraAmount", rej.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitSucceeds(t *testing.T) {
	gateway := &fakeGateway{id: "book-123"}
	svc, mock := newTestService(t, gateway)
	session := reviewSession("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.Regexp().ExpectSet("sess-1", `.*"submissionState":"submitting".*`, testTTL).SetVal("OK")
	mock.ExpectDel("sess-1").SetVal(1)

	result, err := svc.Submit(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "book-123", result.BookingID)
	assert.Equal(t, models.SubmissionSucceeded, result.State)
	assert.False(t, result.Skipped)
	assert.Equal(t, 80.00, result.Quote.Subtotal)
	assert.Equal(t, 8.00, result.Quote.Fee)
	assert.Equal(t, 88.00, result.Quote.Total)

	require.Equal(t, 1, gateway.submissions())
	sub := gateway.last
	assert.Equal(t, 7, sub.CompanionID)
	assert.Equal(t, "2026-09-12", sub.Date)
	assert.Equal(t, "18:00", sub.StartTime)
	assert.Equal(t, "20:00", sub.EndTime)
	assert.Equal(t, 2.0, sub.DurationHours)
	assert.Equal(t, 3, sub.CategoryID)
	assert.Nil(t, sub.CustomService)
	require.NotNil(t, sub.Location, "in-person bookings carry the location")
	assert.Equal(t, 88.00, sub.Total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRevalidatesEveryStep(t *testing.T) {
	gateway := &fakeGateway{id: "book-123"}
	svc, mock := newTestService(t, gateway)

	// The draft was edited out from under the review step: the location is
	// gone but the session still sits on review.
	session := reviewSession("sess-1")
	session.Draft.Location = nil
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))

	_, err := svc.Submit(context.Background(), "sess-1")
	var rej *StepRejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, models.StepLocation, rej.Step)
	assert.Equal(t, 0, gateway.submissions(), "nothing invalid may reach the gateway")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitGatewayFailureKeepsDraft(t *testing.T) {
	gateway := &fakeGateway{err: &GatewayError{
		Message: "the selected time window is no longer available",
		Fields:  map[string]string{"window": "already booked"},
	}}
	svc, mock := newTestService(t, gateway)
	session := reviewSession("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.Regexp().ExpectSet("sess-1", `.*"submissionState":"submitting".*`, testTTL).SetVal("OK")
	mock.Regexp().ExpectSet("sess-1", `.*"submissionState":"failed".*`, testTTL).SetVal("OK")

	_, err := svc.Submit(context.Background(), "sess-1")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Contains(t, gwErr.Fields, "window")

	// No delete was expected: the session survives the failure for a retry.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitDuplicateIsAbsorbed(t *testing.T) {
	gateway := &fakeGateway{
		id:      "book-123",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, mock := newTestService(t, gateway)
	mock.MatchExpectationsInOrder(false)

	session := reviewSession("sess-1")
	data := marshalSession(t, session)
	mock.ExpectGet("sess-1").SetVal(data)
	mock.ExpectGet("sess-1").SetVal(data)
	mock.Regexp().ExpectSet("sess-1", `.*`, testTTL).SetVal("OK")
	mock.ExpectDel("sess-1").SetVal(1)

	var wg sync.WaitGroup
	wg.Add(1)
	var first *SubmitResult
	var firstErr error
	go func() {
		defer wg.Done()
		first, firstErr = svc.Submit(context.Background(), "sess-1")
	}()

	<-gateway.entered
	second, err := svc.Submit(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, models.SubmissionSubmitting, second.State)

	close(gateway.release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, "book-123", first.BookingID)
	assert.Equal(t, 1, gateway.submissions(), "the duplicate confirm must not reach the gateway")
}

func TestStaleCatalogResultDropped(t *testing.T) {
	svc, mock := newTestService(t, nil)

	// The fetch left while the session was on the service step, but the user
	// has since gone back and a newer fetch has been issued.
	token := fetchToken{SessionID: "sess-1", Step: models.StepService, Seq: 1}
	session := scheduleSession("sess-1")
	session.Step = models.StepSchedule
	session.CatalogFetchSeq = 2
	mock.ExpectWatch("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))

	err := svc.applyCatalog(context.Background(), token, []models.ServiceCategory{{ID: 1, Name: "Dinner date"}})
	require.NoError(t, err)

	// No Set expectation: the stale result must not be written.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreshCatalogResultApplied(t *testing.T) {
	svc, mock := newTestService(t, nil)

	token := fetchToken{SessionID: "sess-1", Step: models.StepService, Seq: 1}
	session := scheduleSession("sess-1")
	session.Step = models.StepService
	session.CatalogFetchSeq = 1
	mock.ExpectWatch("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.ExpectTxPipeline()
	mock.Regexp().ExpectSet("sess-1", `.*"catalogFetched":true.*`, testTTL).SetVal("OK")
	mock.ExpectTxPipelineExec()

	err := svc.applyCatalog(context.Background(), token, []models.ServiceCategory{{ID: 1, Name: "Dinner date"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSameStepFetchesDoNotInvalidateEachOther(t *testing.T) {
	svc, mock := newTestService(t, nil)

	// A seeded open on the variant that needs the catalog up front sends
	// both the availability and the catalog fetch out for the same entry
	// into the first step.
	session := scheduleSession("sess-1")
	availToken := svc.beginAvailabilityFetch(session)
	catToken := svc.beginCatalogFetch(session)

	day := &models.DayAvailability{
		CompanionID: 7,
		Date:        "2026-09-12",
		Open:        []models.TimeWindow{{Start: "10:00", End: "18:00"}},
	}

	mock.ExpectWatch("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.ExpectTxPipeline()
	mock.Regexp().ExpectSet("sess-1", `.*"availabilityFetched":true.*`, testTTL).SetVal("OK")
	mock.ExpectTxPipelineExec()

	require.NoError(t, svc.applyAvailability(context.Background(), availToken, day))

	// The catalog result for the same step entry lands as well.
	session.DayAvailability = day
	session.AvailabilityFetched = true
	mock.ExpectWatch("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.ExpectTxPipeline()
	mock.Regexp().ExpectSet("sess-1", `.*"catalogFetched":true.*`, testTTL).SetVal("OK")
	mock.ExpectTxPipelineExec()

	err := svc.applyCatalog(context.Background(), catToken, []models.ServiceCategory{{ID: 1, Name: "Dinner date"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRetriesOnConflictingWrite(t *testing.T) {
	svc, mock := newTestService(t, nil)

	token := fetchToken{SessionID: "sess-1", Step: models.StepService, Seq: 1}
	session := scheduleSession("sess-1")
	session.Step = models.StepService
	session.CatalogFetchSeq = 1
	data := marshalSession(t, session)

	// A draft edit lands between the read and the write: the transaction
	// aborts and the apply retries against the fresh snapshot.
	mock.ExpectWatch("sess-1")
	mock.ExpectGet("sess-1").SetVal(data)
	mock.ExpectTxPipeline()
	mock.Regexp().ExpectSet("sess-1", `.*"catalogFetched":true.*`, testTTL).SetVal("OK")
	mock.ExpectTxPipelineExec().SetErr(redis.TxFailedErr)

	mock.ExpectWatch("sess-1")
	mock.ExpectGet("sess-1").SetVal(data)
	mock.ExpectTxPipeline()
	mock.Regexp().ExpectSet("sess-1", `.*"catalogFetched":true.*`, testTTL).SetVal("OK")
	mock.ExpectTxPipelineExec()

	err := svc.applyCatalog(context.Background(), token, []models.ServiceCategory{{ID: 1, Name: "Dinner date"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogResultForClosedSessionIgnored(t *testing.T) {
	svc, mock := newTestService(t, nil)

	token := fetchToken{SessionID: "sess-1", Step: models.StepService, Seq: 1}
	mock.ExpectWatch("sess-1")
	mock.ExpectGet("sess-1").RedisNil()

	err := svc.applyCatalog(context.Background(), token, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelDropsSession(t *testing.T) {
	svc, mock := newTestService(t, nil)
	session := scheduleSession("sess-1")
	mock.ExpectGet("sess-1").SetVal(marshalSession(t, session))
	mock.ExpectDel("sess-1").SetVal(1)

	require.NoError(t, svc.Cancel(context.Background(), "sess-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
