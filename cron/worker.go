package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meytle/config"
	bookingRepo "meytle/database/repository/booking"
	"meytle/models"
	"meytle/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingComplete = "booking:complete"

// CompletionPayload is the task body for a scheduled status flip.
type CompletionPayload struct {
	BookingID string `json:"bookingId"`
	Date      string `json:"date"`
	End       string `json:"end"`
}

// AsynqCompletionScheduler enqueues completion tasks for the booking's end
// time. It satisfies wizard.CompletionScheduler.
type AsynqCompletionScheduler struct {
	client *asynq.Client
	loc    *time.Location
}

// NewCompletionScheduler builds the asynq client on the completion queue DB.
// Booking end times are interpreted in the configured TIMEZONE, never the
// server's local zone.
func NewCompletionScheduler() *AsynqCompletionScheduler {
	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		utils.GetLogger().Warn("unknown TIMEZONE, falling back to UTC",
			zap.String("timezone", config.AppConfig.Timezone))
		loc = time.UTC
	}
	return &AsynqCompletionScheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisCompletionDB,
		}),
		loc: loc,
	}
}

// completionTime resolves a booking's wall-clock end into an instant in the
// given location.
func completionTime(booking models.Booking, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", booking.Date+" "+booking.End, loc)
}

// ScheduleCompletion queues a task that fires when the booking ends.
func (s *AsynqCompletionScheduler) ScheduleCompletion(booking models.Booking) error {
	endsAt, err := completionTime(booking, s.loc)
	if err != nil {
		return fmt.Errorf("cannot parse booking end time: %w", err)
	}

	payload, err := json.Marshal(CompletionPayload{
		BookingID: booking.ID,
		Date:      booking.Date,
		End:       booking.End,
	})
	if err != nil {
		return fmt.Errorf("cannot marshal completion payload: %w", err)
	}

	task := asynq.NewTask(TypeBookingComplete, payload)
	_, err = s.client.Enqueue(task, asynq.ProcessAt(endsAt), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("cannot enqueue completion task: %w", err)
	}
	return nil
}

// InitCompletionWorker runs the async worker in background.
func InitCompletionWorker(repo bookingRepo.BookingRepository) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCompletionDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingComplete, handleCompletionTask(repo))

	go monitorRedisConnection()

	go func() {
		logger.Info("starting booking completion worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("completion worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("completion worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleCompletionTask(repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p CompletionPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("completion task: invalid payload", zap.Error(err))
			return err
		}

		if err := repo.MarkCompleted(ctx, p.BookingID); err != nil {
			// Already completed or cancelled bookings are not retried.
			logger.Warn("completion task: booking not flipped",
				zap.String("bookingId", p.BookingID), zap.Error(err))
			return nil
		}

		logger.Info("booking marked completed", zap.String("bookingId", p.BookingID))
		return nil
	}
}

// monitorRedisConnection pings the completion queue periodically to detect
// failures at runtime.
func monitorRedisConnection() {
	client := utils.GetCompletionQueueClient()
	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("completion worker: redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
