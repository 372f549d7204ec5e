// File: services/wizard/gateway.go
package wizard

import (
	"context"
	"fmt"
	"time"

	bookingRepo "meytle/database/repository/booking"
	"meytle/models"
	"meytle/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingGateway persists a fully validated submission and returns the new
// booking id. The wizard never retries it automatically; retry is a manual
// user action made safe by the submission guard.
type BookingGateway interface {
	SubmitBooking(ctx context.Context, submission models.BookingSubmission) (string, error)
}

// CompletionScheduler queues the confirmed-to-completed status flip for a
// booking's end time.
type CompletionScheduler interface {
	ScheduleCompletion(booking models.Booking) error
}

// RepoBookingGateway writes bookings through the mongo repository after a
// final overlap check, then schedules the completion task.
type RepoBookingGateway struct {
	Repo      bookingRepo.BookingRepository
	Completer CompletionScheduler
}

func (g *RepoBookingGateway) SubmitBooking(ctx context.Context, submission models.BookingSubmission) (string, error) {
	overlapping, err := g.Repo.Overlapping(ctx, submission.CompanionID, submission.Date, submission.StartTime, submission.EndTime)
	if err != nil {
		return "", fmt.Errorf("failed to check existing reservations: %w", err)
	}
	if len(overlapping) > 0 {
		return "", &GatewayError{
			Message: "the selected time window is no longer available",
			Fields:  map[string]string{"window": "overlaps an existing booking"},
		}
	}

	booking := models.Booking{
		ID:              uuid.New().String(),
		CompanionID:     submission.CompanionID,
		UserID:          submission.UserID,
		Date:            submission.Date,
		Start:           submission.StartTime,
		End:             submission.EndTime,
		DurationHours:   submission.DurationHours,
		ServiceName:     submission.ServiceName,
		CategoryID:      submission.CategoryID,
		MeetingType:     submission.MeetingType,
		Location:        submission.Location,
		Subtotal:        submission.Subtotal,
		Fee:             submission.Fee,
		ExtraAmount:     submission.ExtraAmount,
		Total:           submission.Total,
		SpecialRequests: submission.SpecialRequests,
		Status:          models.BookingConfirmed,
		CreatedAt:       time.Now(),
	}

	if err := g.Repo.Create(ctx, &booking); err != nil {
		return "", &GatewayError{Message: "failed to save the booking, please try again"}
	}

	if g.Completer != nil {
		if err := g.Completer.ScheduleCompletion(booking); err != nil {
			// The booking stands even if the completion task cannot be queued.
			utils.GetLogger().Warn("failed to schedule booking completion",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}
	return booking.ID, nil
}
