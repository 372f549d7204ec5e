package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meytle/models"
	"meytle/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func (s *DefaultWizardService) loadSession(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	data, err := s.Cache.Get(ctx, sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}
	var session models.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse wizard session: %w", err)
	}
	return &session, nil
}

func (s *DefaultWizardService) saveSession(ctx context.Context, session *models.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard session: %w", err)
	}
	if err := s.Cache.Set(ctx, session.SessionID, string(data), s.SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store wizard session: %w", err)
	}
	return nil
}

// updateSessionRetries bounds the optimistic-lock retry loop in
// updateSession.
const updateSessionRetries = 3

// updateSession applies fn to the stored session under a WATCH on its key,
// so a save landing between the read and the write aborts the transaction
// and the attempt restarts against the fresh snapshot instead of silently
// overwriting it. fn returns false to leave the session as it is. A missing
// session is not an error here; the callers are background applies whose
// session may have closed while they were in flight.
func (s *DefaultWizardService) updateSession(ctx context.Context, sessionID string, fn func(*models.WizardSession) bool) error {
	for attempt := 0; attempt < updateSessionRetries; attempt++ {
		err := s.Cache.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, sessionID).Result()
			if err != nil {
				return err
			}
			var session models.WizardSession
			if err := json.Unmarshal([]byte(data), &session); err != nil {
				return fmt.Errorf("failed to parse wizard session: %w", err)
			}
			if !fn(&session) {
				return nil
			}
			payload, err := json.Marshal(&session)
			if err != nil {
				return fmt.Errorf("failed to marshal wizard session: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, sessionID, string(payload), s.SessionTTL)
				return nil
			})
			return err
		}, sessionID)
		switch {
		case err == redis.TxFailedErr:
			continue
		case errors.Is(err, redis.Nil):
			return nil
		default:
			return err
		}
	}
	return fmt.Errorf("session %s kept changing, giving up after %d attempts", sessionID, updateSessionRetries)
}

func (s *DefaultWizardService) dropSession(ctx context.Context, sessionID string) {
	if err := s.Cache.Del(ctx, sessionID).Err(); err != nil {
		utils.GetLogger().Warn("failed to delete wizard session",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
}
