// Package service implements the workflows that tie the cart, the booking
// repository and the session storage together.
package service

import (
	"context"
	"fmt"
	"time"

	"resorthub/internal/cart"
	"resorthub/internal/domain"
	"resorthub/internal/events"
	"resorthub/internal/metrics"
	"resorthub/internal/models"
	"resorthub/internal/pricing"

	"github.com/rs/zerolog"
)

// ModificationService runs the exclusive edit workflow: it borrows a stored
// booking's items into the cart, tracks the session marker and commits or
// discards the edit. At most one session is active per browser session;
// starting a new one overwrites the previous marker.
type ModificationService struct {
	bookings domain.BookingRepository
	sessions domain.SessionRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewModificationService(bookings domain.BookingRepository, sessions domain.SessionRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ModificationService {
	return &ModificationService{
		bookings: bookings,
		sessions: sessions,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Start activates a modification session for the booking: the cart is seeded
// with a deep copy of the booking's items and the marker is persisted so the
// session survives navigation and reload.
func (s *ModificationService) Start(ctx context.Context, sessionID string, booking models.Booking, store *cart.Store) error {
	if err := s.sessions.SetSession(ctx, sessionID, booking); err != nil {
		return fmt.Errorf("persist modification marker: %w", err)
	}
	store.Seed(booking.Items)

	metrics.IncModification("started")
	s.publishEvent(events.EventModificationStarted, booking)
	s.logger.Info().
		Str("session_id", sessionID).
		Str("booking_id", booking.BookingID).
		Msg("modification session started")
	return nil
}

// Cancel discards the borrowed cart and removes the marker. Calling without
// an active session is a safe no-op.
func (s *ModificationService) Cancel(ctx context.Context, sessionID string, store *cart.Store) error {
	active, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("read modification marker: %w", err)
	}
	if active == nil {
		return nil
	}

	if err := s.sessions.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("clear modification marker: %w", err)
	}
	store.Clear()

	metrics.IncModification("cancelled")
	s.publishEvent(events.EventModificationCancelled, *active)
	s.logger.Info().
		Str("session_id", sessionID).
		Str("booking_id", active.BookingID).
		Msg("modification session cancelled")
	return nil
}

// Complete commits the edit: totals are recomputed from newItems at the
// canonical rate, the stored booking is replaced in place and both the cart
// and the marker are cleared. Without an active session this is a no-op.
// An empty newItems list is accepted; rejecting it is the caller's call.
func (s *ModificationService) Complete(ctx context.Context, sessionID string, newItems []models.LineItem, store *cart.Store) (*models.Booking, error) {
	active, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read modification marker: %w", err)
	}
	if active == nil {
		return nil, nil
	}

	quote := pricing.QuoteItems(newItems, pricing.CanonicalRate)
	updated := models.Booking{
		ID:            active.ID,
		BookingID:     active.BookingID,
		UserEmail:     active.UserEmail,
		Items:         models.CloneItems(newItems),
		Subtotal:      quote.Subtotal,
		Tax:           quote.Tax,
		Total:         quote.Total,
		PaymentMethod: active.PaymentMethod,
		Status:        active.Status,
		BookedAt:      active.BookedAt,
	}

	if err := s.bookings.Update(ctx, active.ID, updated); err != nil {
		return nil, fmt.Errorf("update booking %s: %w", active.ID, err)
	}

	if err := s.sessions.ClearSession(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("clear modification marker: %w", err)
	}
	store.Clear()

	metrics.IncModification("completed")
	s.publishEvent(events.EventBookingModified, updated)
	s.logger.Info().
		Str("session_id", sessionID).
		Str("booking_id", updated.BookingID).
		Int64("total", updated.Total).
		Msg("modification session completed")
	return &updated, nil
}

// Active returns the booking under modification, or nil when the session is
// idle. A marker that no longer decodes reads back as idle; the session store
// clears it on its own.
func (s *ModificationService) Active(ctx context.Context, sessionID string) (*models.Booking, error) {
	return s.sessions.GetSession(ctx, sessionID)
}

// Rehydrate restores the cart from a surviving marker after a reload. The
// cart is only reseeded when a marker exists; otherwise it is left alone.
func (s *ModificationService) Rehydrate(ctx context.Context, sessionID string, store *cart.Store) (*models.Booking, error) {
	active, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read modification marker: %w", err)
	}
	if active == nil {
		return nil, nil
	}
	store.Seed(active.Items)
	s.logger.Info().
		Str("session_id", sessionID).
		Str("booking_id", active.BookingID).
		Msg("modification session rehydrated")
	return active, nil
}

func (s *ModificationService) publishEvent(eventType string, booking models.Booking) {
	payload := events.BookingEventPayload{
		BookingID:  booking.BookingID,
		RecordID:   booking.ID,
		UserEmail:  booking.UserEmail,
		ItemCount:  len(booking.Items),
		Total:      booking.Total,
		Status:     booking.Status,
		OccurredAt: time.Now(),
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event")
	}
}
