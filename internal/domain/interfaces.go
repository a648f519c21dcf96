package domain

import (
	"context"

	"resorthub/internal/models"
)

// BookingRepository is the durable, per-identity collection of bookings.
// Every method takes the owning identity explicitly; there is no ambient
// signed-in state inside the core.
type BookingRepository interface {
	// Append adds a booking to the end of its owner's list.
	Append(ctx context.Context, booking models.Booking) error
	// LoadAll returns the owner's bookings in insertion order. A missing or
	// undecodable payload yields an empty list, never an error.
	LoadAll(ctx context.Context, userEmail string) ([]models.Booking, error)
	// Update replaces the entry whose internal id matches, preserving list
	// order. Returns ErrBookingNotFound when no entry matches.
	Update(ctx context.Context, id string, updated models.Booking) error
}

// SessionRepository stores the modification marker for a browser session.
// Markers are TTL-bound; a missing marker reads back as nil, not an error.
type SessionRepository interface {
	GetSession(ctx context.Context, sessionID string) (*models.Booking, error)
	SetSession(ctx context.Context, sessionID string, booking models.Booking) error
	ClearSession(ctx context.Context, sessionID string) error
}

// EventPublisher fans out domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ReceiptWriter renders a booking receipt to a file and returns its path.
type ReceiptWriter interface {
	WriteReceipt(booking models.Booking) (string, error)
}

// ExportQueue schedules asynchronous receipt generation.
type ExportQueue interface {
	EnqueueReceipt(ctx context.Context, booking models.Booking) error
}
