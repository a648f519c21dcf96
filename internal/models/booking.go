package models

import "time"

// Booking is a confirmed purchase owned by one identity. Items is a value
// snapshot taken at checkout; live cart edits never reach a stored booking.
type Booking struct {
	ID            string     `json:"id"`
	BookingID     string     `json:"bookingId"`
	UserEmail     string     `json:"userEmail"`
	Items         []LineItem `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	Tax           int64      `json:"tax"`
	Total         int64      `json:"total"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"` // confirmed, pending, cancelled
	BookedAt      time.Time  `json:"bookedAt"`
}

// Clone returns a deep copy, including the item snapshot.
func (b Booking) Clone() Booking {
	out := b
	out.Items = CloneItems(b.Items)
	return out
}
