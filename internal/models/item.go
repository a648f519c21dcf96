package models

import "time"

type ItemType string

const (
	ItemTypeRoom     ItemType = "room"
	ItemTypeActivity ItemType = "activity"
)

// IsValid reports whether the item type is one of the known variants.
func (t ItemType) IsValid() bool {
	return t == ItemTypeRoom || t == ItemTypeActivity
}

// LineItem is a single room or activity entry in a cart or a booking snapshot.
// The temporal fields are optional even when the type implies relevance:
// rooms carry check-in/check-out/guests, activities carry a date and duration.
type LineItem struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Price       int64    `json:"price"`
	Quantity    int      `json:"quantity"`

	CheckIn      *time.Time `json:"checkIn,omitempty"`
	CheckOut     *time.Time `json:"checkOut,omitempty"`
	Guests       int        `json:"guests,omitempty"`
	SelectedDate *time.Time `json:"selectedDate,omitempty"`
	Duration     string     `json:"duration,omitempty"`
}

// LineTotal returns price × quantity for this entry.
func (i LineItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Clone returns a value copy with its own temporal pointers.
func (i LineItem) Clone() LineItem {
	out := i
	out.CheckIn = cloneTime(i.CheckIn)
	out.CheckOut = cloneTime(i.CheckOut)
	out.SelectedDate = cloneTime(i.SelectedDate)
	return out
}

// CloneItems deep-copies a line item slice.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for idx, item := range items {
		out[idx] = item.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
