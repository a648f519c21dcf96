package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"resorthub/internal/cart"
	"resorthub/internal/domain"
	"resorthub/internal/events"
	"resorthub/internal/metrics"
	"resorthub/internal/models"
	"resorthub/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNoIdentity is returned when a repository operation is attempted
	// without a signed-in identity.
	ErrNoIdentity = errors.New("no signed-in identity")

	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// CheckoutService turns a confirmed cart into a stored booking. Payment
// happens before this service is called; it only records the outcome.
type CheckoutService struct {
	bookings domain.BookingRepository
	eventBus domain.EventPublisher
	exports  domain.ExportQueue
	logger   *zerolog.Logger
}

func NewCheckoutService(bookings domain.BookingRepository, eventBus domain.EventPublisher, exports domain.ExportQueue, logger *zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		bookings: bookings,
		eventBus: eventBus,
		exports:  exports,
		logger:   logger,
	}
}

// Checkout snapshots the cart into a new confirmed booking appended under the
// identity's list, then clears the cart. The cart is only cleared after the
// append succeeds.
func (s *CheckoutService) Checkout(ctx context.Context, identity models.Identity, paymentMethod string, store *cart.Store) (*models.Booking, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}

	state := store.Snapshot()
	if len(state.Items) == 0 {
		return nil, ErrEmptyCart
	}

	quote := pricing.QuoteItems(state.Items, pricing.CanonicalRate)
	booking := models.Booking{
		ID:            uuid.NewString(),
		BookingID:     NewBookingCode(),
		UserEmail:     identity.Email,
		Items:         state.Items,
		Subtotal:      quote.Subtotal,
		Tax:           quote.Tax,
		Total:         quote.Total,
		PaymentMethod: paymentMethod,
		Status:        models.StatusConfirmed,
		BookedAt:      time.Now(),
	}

	if err := s.bookings.Append(ctx, booking); err != nil {
		return nil, fmt.Errorf("append booking: %w", err)
	}
	store.Clear()

	metrics.IncCheckout()
	s.publishEvent(events.EventBookingCreated, booking)

	if s.exports != nil {
		if err := s.exports.EnqueueReceipt(ctx, booking); err != nil {
			// Receipt generation is best-effort; the booking already exists.
			s.logger.Warn().Err(err).Str("booking_id", booking.BookingID).Msg("enqueue receipt")
		}
	}

	s.logger.Info().
		Str("booking_id", booking.BookingID).
		Str("user_email", booking.UserEmail).
		Int64("total", booking.Total).
		Msg("checkout completed")
	return &booking, nil
}

// History returns the identity's bookings in insertion order.
func (s *CheckoutService) History(ctx context.Context, identity models.Identity) ([]models.Booking, error) {
	if !identity.Valid() {
		return nil, ErrNoIdentity
	}
	return s.bookings.LoadAll(ctx, identity.Email)
}

// NewBookingCode generates a human-facing code like DHR-482915.
func NewBookingCode() string {
	return fmt.Sprintf("%s-%06d", models.BookingCodePrefix, rand.Intn(1000000))
}

func (s *CheckoutService) publishEvent(eventType string, booking models.Booking) {
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
