package repository

import (
	"context"
	"sync"
	"time"

	"resorthub/internal/models"
)

// MemorySessionRepository is the in-process fallback when Redis is absent.
// Markers do not survive a process restart, which matches the session-scoped
// contract closely enough for degraded operation.
type MemorySessionRepository struct {
	sessions sync.Map
	ttl      time.Duration
}

type memoryEntry struct {
	booking   models.Booking
	expiresAt time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{ttl: ttl}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	val, ok := r.sessions.Load(sessionID)
	if !ok {
		return nil, nil
	}
	entry := val.(memoryEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.sessions.Delete(sessionID)
		return nil, nil
	}
	booking := entry.booking.Clone()
	return &booking, nil
}

func (r *MemorySessionRepository) SetSession(ctx context.Context, sessionID string, booking models.Booking) error {
	r.sessions.Store(sessionID, memoryEntry{
		booking:   booking.Clone(),
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemorySessionRepository) ClearSession(ctx context.Context, sessionID string) error {
	r.sessions.Delete(sessionID)
	return nil
}
