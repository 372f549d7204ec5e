package availability

import (
	"context"
	"testing"
	"time"

	"meytle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScheduleRepo struct {
	windows []models.WeeklyWindow
	err     error
}

func (s *stubScheduleRepo) WeeklySchedule(ctx context.Context, companionID int) ([]models.WeeklyWindow, error) {
	return s.windows, s.err
}

func (s *stubScheduleRepo) ReplaceWeeklySchedule(ctx context.Context, companionID int, windows []models.WeeklyWindow) error {
	s.windows = windows
	return nil
}

type stubBookingRepo struct {
	bookings []models.Booking
	err      error
}

func (s *stubBookingRepo) Create(ctx context.Context, booking *models.Booking) error { return nil }
func (s *stubBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepo) ByCompanionAndDate(ctx context.Context, companionID int, date string) ([]models.Booking, error) {
	return s.bookings, s.err
}
func (s *stubBookingRepo) Overlapping(ctx context.Context, companionID int, date, start, end string) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepo) MarkCompleted(ctx context.Context, id string) error { return nil }

// 2026-09-12 is a Saturday.
const saturday = "2026-09-12"

func TestDayAvailabilitySubtractsBookings(t *testing.T) {
	svc := &DefaultAvailabilityService{
		Repo: &stubScheduleRepo{windows: []models.WeeklyWindow{
			{CompanionID: 7, Weekday: time.Saturday, StartTime: "10:00", EndTime: "18:00", IsAvailable: true},
		}},
		Bookings: &stubBookingRepo{bookings: []models.Booking{
			{CompanionID: 7, Date: saturday, Start: "12:00", End: "14:00"},
		}},
	}

	day, err := svc.DayAvailability(context.Background(), 7, saturday)
	require.NoError(t, err)

	assert.Equal(t, []models.TimeWindow{
		{Start: "10:00", End: "12:00"},
		{Start: "14:00", End: "18:00"},
	}, day.Open)
	assert.Equal(t, []models.TimeWindow{{Start: "12:00", End: "14:00"}}, day.Booked)
}

func TestDayAvailabilityIgnoresOtherWeekdays(t *testing.T) {
	svc := &DefaultAvailabilityService{
		Repo: &stubScheduleRepo{windows: []models.WeeklyWindow{
			{CompanionID: 7, Weekday: time.Monday, StartTime: "10:00", EndTime: "18:00", IsAvailable: true},
			{CompanionID: 7, Weekday: time.Saturday, StartTime: "09:00", EndTime: "12:00", IsAvailable: false},
		}},
		Bookings: &stubBookingRepo{},
	}

	day, err := svc.DayAvailability(context.Background(), 7, saturday)
	require.NoError(t, err)
	assert.Empty(t, day.Open)
}

func TestDayAvailabilityRejectsBadDate(t *testing.T) {
	svc := &DefaultAvailabilityService{Repo: &stubScheduleRepo{}, Bookings: &stubBookingRepo{}}

	_, err := svc.DayAvailability(context.Background(), 7, "12/09/2026")
	assert.Error(t, err)
}

func TestReplaceWeeklyScheduleValidates(t *testing.T) {
	repo := &stubScheduleRepo{}
	svc := &DefaultAvailabilityService{Repo: repo, Bookings: &stubBookingRepo{}}
	ctx := context.Background()

	err := svc.ReplaceWeeklySchedule(ctx, 7, []models.WeeklyWindow{
		{Weekday: time.Saturday, StartTime: "18:00", EndTime: "10:00", IsAvailable: true},
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	assert.Empty(t, repo.windows, "a rejected schedule must not reach the store")

	err = svc.ReplaceWeeklySchedule(ctx, 7, []models.WeeklyWindow{
		{Weekday: time.Weekday(9), StartTime: "10:00", EndTime: "18:00", IsAvailable: true},
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	windows := []models.WeeklyWindow{
		{Weekday: time.Saturday, StartTime: "10:00", EndTime: "18:00", IsAvailable: true},
	}
	require.NoError(t, svc.ReplaceWeeklySchedule(ctx, 7, windows))
	assert.Equal(t, windows, repo.windows)
}

func TestSubtractSpans(t *testing.T) {
	base := []span{{start: 600, end: 1080}} // 10:00-18:00

	// A booking in the middle splits the window.
	open := subtractSpans(base, []span{{start: 720, end: 840}})
	assert.Equal(t, []span{{start: 600, end: 720}, {start: 840, end: 1080}}, open)

	// A booking covering the whole window removes it.
	open = subtractSpans(base, []span{{start: 540, end: 1140}})
	assert.Empty(t, open)

	// A booking overlapping one edge trims it.
	open = subtractSpans(base, []span{{start: 540, end: 660}})
	assert.Equal(t, []span{{start: 660, end: 1080}}, open)

	// Non-overlapping bookings leave the window alone.
	open = subtractSpans(base, []span{{start: 1140, end: 1200}})
	assert.Equal(t, base, open)
}

func TestParseClock(t *testing.T) {
	minutes, err := parseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, minutes)

	_, err = parseClock("25:00")
	assert.Error(t, err)
	_, err = parseClock("10:75")
	assert.Error(t, err)
	_, err = parseClock("noon")
	assert.Error(t, err)
}

func TestParseSpanRejectsInvertedWindows(t *testing.T) {
	_, err := parseSpan("18:00", "10:00")
	assert.Error(t, err)
	_, err = parseSpan("10:00", "10:00")
	assert.Error(t, err)
}
