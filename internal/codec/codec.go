// Package codec converts bookings and line items to and from their persisted
// JSON form. Temporal fields are stored as ISO-8601 strings and repaired back
// into time values on decode; anything malformed surfaces as a typed error
// instead of a panic or a silent zero value.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resorthub/internal/models"
)

// ErrMalformedPayload wraps every decode failure so callers can fail-soft
// with a single errors.Is check.
var ErrMalformedPayload = errors.New("malformed payload")

type storedItem struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`

	CheckIn      string `json:"checkIn,omitempty"`
	CheckOut     string `json:"checkOut,omitempty"`
	Guests       int    `json:"guests,omitempty"`
	SelectedDate string `json:"selectedDate,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

type storedBooking struct {
	ID            string       `json:"id"`
	BookingID     string       `json:"bookingId"`
	UserEmail     string       `json:"userEmail"`
	Items         []storedItem `json:"items"`
	Subtotal      int64        `json:"subtotal"`
	Tax           int64        `json:"tax"`
	Total         int64        `json:"total"`
	PaymentMethod string       `json:"paymentMethod"`
	Status        string       `json:"status"`
	BookedAt      string       `json:"bookedAt"`
}

// EncodeBooking renders a booking as storage-safe JSON text.
func EncodeBooking(b models.Booking) (string, error) {
	data, err := json.Marshal(toStoredBooking(b))
	if err != nil {
		return "", fmt.Errorf("encode booking %s: %w", b.ID, err)
	}
	return string(data), nil
}

// DecodeBooking parses and validates a single stored booking.
func DecodeBooking(raw string) (models.Booking, error) {
	var stored storedBooking
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return models.Booking{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return fromStoredBooking(stored)
}

// EncodeBookings renders an ordered booking list as a JSON array.
func EncodeBookings(bookings []models.Booking) (string, error) {
	stored := make([]storedBooking, len(bookings))
	for i, b := range bookings {
		stored[i] = toStoredBooking(b)
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode bookings: %w", err)
	}
	return string(data), nil
}

// DecodeBookings parses a stored JSON array, preserving order.
func DecodeBookings(raw string) ([]models.Booking, error) {
	var stored []storedBooking
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	bookings := make([]models.Booking, 0, len(stored))
	for i, sb := range stored {
		b, err := fromStoredBooking(sb)
		if err != nil {
			return nil, fmt.Errorf("booking at index %d: %w", i, err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func toStoredBooking(b models.Booking) storedBooking {
	items := make([]storedItem, len(b.Items))
	for i, item := range b.Items {
		items[i] = toStoredItem(item)
	}
	return storedBooking{
		ID:            b.ID,
		BookingID:     b.BookingID,
		UserEmail:     b.UserEmail,
		Items:         items,
		Subtotal:      b.Subtotal,
		Tax:           b.Tax,
		Total:         b.Total,
		PaymentMethod: b.PaymentMethod,
		Status:        b.Status,
		BookedAt:      b.BookedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromStoredBooking(stored storedBooking) (models.Booking, error) {
	if stored.ID == "" {
		return models.Booking{}, fmt.Errorf("%w: booking id is empty", ErrMalformedPayload)
	}
	if !models.KnownStatus(stored.Status) {
		return models.Booking{}, fmt.Errorf("%w: unknown booking status %q", ErrMalformedPayload, stored.Status)
	}

	bookedAt, err := parseInstant(stored.BookedAt)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%w: bookedAt: %v", ErrMalformedPayload, err)
	}

	items := make([]models.LineItem, 0, len(stored.Items))
	for i, si := range stored.Items {
		item, err := fromStoredItem(si)
		if err != nil {
			return models.Booking{}, fmt.Errorf("item at index %d: %w", i, err)
		}
		items = append(items, item)
	}

	return models.Booking{
		ID:            stored.ID,
		BookingID:     stored.BookingID,
		UserEmail:     stored.UserEmail,
		Items:         items,
		Subtotal:      stored.Subtotal,
		Tax:           stored.Tax,
		Total:         stored.Total,
		PaymentMethod: stored.PaymentMethod,
		Status:        stored.Status,
		BookedAt:      bookedAt,
	}, nil
}

func toStoredItem(item models.LineItem) storedItem {
	return storedItem{
		ID:           item.ID,
		Type:         string(item.Type),
		Title:        item.Title,
		Description:  item.Description,
		Image:        item.Image,
		Price:        item.Price,
		Quantity:     item.Quantity,
		CheckIn:      formatOptional(item.CheckIn),
		CheckOut:     formatOptional(item.CheckOut),
		Guests:       item.Guests,
		SelectedDate: formatOptional(item.SelectedDate),
		Duration:     item.Duration,
	}
}

func fromStoredItem(stored storedItem) (models.LineItem, error) {
	itemType := models.ItemType(stored.Type)
	if !itemType.IsValid() {
		return models.LineItem{}, fmt.Errorf("%w: unknown item type %q", ErrMalformedPayload, stored.Type)
	}
	if stored.Price < 0 {
		return models.LineItem{}, fmt.Errorf("%w: negative price %d", ErrMalformedPayload, stored.Price)
	}
	if stored.Quantity < 1 {
		return models.LineItem{}, fmt.Errorf("%w: quantity %d below 1", ErrMalformedPayload, stored.Quantity)
	}

	checkIn, err := parseOptional(stored.CheckIn)
	if err != nil {
		return models.LineItem{}, fmt.Errorf("%w: checkIn: %v", ErrMalformedPayload, err)
	}
	checkOut, err := parseOptional(stored.CheckOut)
	if err != nil {
		return models.LineItem{}, fmt.Errorf("%w: checkOut: %v", ErrMalformedPayload, err)
	}
	selectedDate, err := parseOptional(stored.SelectedDate)
	if err != nil {
		return models.LineItem{}, fmt.Errorf("%w: selectedDate: %v", ErrMalformedPayload, err)
	}

	return models.LineItem{
		ID:           stored.ID,
		Type:         itemType,
		Title:        stored.Title,
		Description:  stored.Description,
		Image:        stored.Image,
		Price:        stored.Price,
		Quantity:     stored.Quantity,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       stored.Guests,
		SelectedDate: selectedDate,
		Duration:     stored.Duration,
	}, nil
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseOptional(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseInstant(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseInstant(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %v", raw, err)
	}
	return t, nil
}
