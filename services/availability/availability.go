// File: services/availability/availability.go
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "meytle/database/repository/availability"
	bookingRepo "meytle/database/repository/booking"
	"meytle/models"
)

// ErrInvalidSchedule marks a weekly-schedule write rejected by validation.
var ErrInvalidSchedule = errors.New("invalid weekly schedule")

// Service answers availability questions for a companion: the open windows
// for a single date (recurring schedule minus existing reservations) and the
// raw weekly recurring schedule, which companions can replace wholesale.
type Service interface {
	DayAvailability(ctx context.Context, companionID int, date string) (*models.DayAvailability, error)
	WeeklySchedule(ctx context.Context, companionID int) ([]models.WeeklyWindow, error)
	ReplaceWeeklySchedule(ctx context.Context, companionID int, windows []models.WeeklyWindow) error
}

// DefaultAvailabilityService implements Service.
type DefaultAvailabilityService struct {
	Repo     availabilityRepo.AvailabilityRepository
	Bookings bookingRepo.BookingRepository
}

func (s *DefaultAvailabilityService) WeeklySchedule(ctx context.Context, companionID int) ([]models.WeeklyWindow, error) {
	return s.Repo.WeeklySchedule(ctx, companionID)
}

// ReplaceWeeklySchedule validates every window and swaps the companion's
// recurring schedule in one shot.
func (s *DefaultAvailabilityService) ReplaceWeeklySchedule(ctx context.Context, companionID int, windows []models.WeeklyWindow) error {
	for _, w := range windows {
		if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, w.Weekday)
		}
		if _, err := parseSpan(w.StartTime, w.EndTime); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
	}
	return s.Repo.ReplaceWeeklySchedule(ctx, companionID, windows)
}

// DayAvailability intersects the companion's recurring windows for the
// date's weekday against the reservations already on the books for that
// date. Both lists come back ordered by start time.
func (s *DefaultAvailabilityService) DayAvailability(ctx context.Context, companionID int, date string) (*models.DayAvailability, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	weekly, err := s.Repo.WeeklySchedule(ctx, companionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly schedule: %w", err)
	}

	var base []span
	for _, w := range weekly {
		if w.Weekday != day.Weekday() || !w.IsAvailable {
			continue
		}
		sp, err := parseSpan(w.StartTime, w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("bad schedule window for companion %d: %w", companionID, err)
		}
		base = append(base, sp)
	}

	reserved, err := s.Bookings.ByCompanionAndDate(ctx, companionID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	var booked []span
	for _, b := range reserved {
		sp, err := parseSpan(b.Start, b.End)
		if err != nil {
			continue // skip malformed records rather than failing the whole day
		}
		booked = append(booked, sp)
	}

	open := subtractSpans(base, booked)

	result := &models.DayAvailability{
		CompanionID: companionID,
		Date:        date,
		Open:        toWindows(open),
		Booked:      toWindows(booked),
	}
	return result, nil
}
