package repository

import (
	"context"
	"sync/atomic"
	"time"

	"resorthub/internal/domain"
	"resorthub/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository prefers the primary (Redis) store and falls back
// to the in-memory store when the primary errors, retrying it after a minute.
type FailoverSessionRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	if !r.isDown.Load() {
		booking, err := r.primary.GetSession(ctx, sessionID)
		if err == nil {
			return booking, nil
		}
		r.logger.Error().Err(err).Msg("primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute.
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		booking, err := r.primary.GetSession(ctx, sessionID)
		if err == nil {
			r.isDown.Store(false)
			return booking, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetSession(ctx, sessionID)
}

func (r *FailoverSessionRepository) SetSession(ctx context.Context, sessionID string, booking models.Booking) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, sessionID, booking)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.SetSession(ctx, sessionID, booking)
}

func (r *FailoverSessionRepository) ClearSession(ctx context.Context, sessionID string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, sessionID)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.ClearSession(ctx, sessionID)
}
