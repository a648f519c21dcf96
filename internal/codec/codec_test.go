package codec

import (
	"testing"
	"time"

	"resorthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooking() models.Booking {
	checkIn := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 2)
	activityDate := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	return models.Booking{
		ID:        "b9f7c2a0-1111-4222-8333-444455556666",
		BookingID: "DHR-481516",
		UserEmail: "guest@example.com",
		Items: []models.LineItem{
			{
				ID:       "item-room",
				Type:     models.ItemTypeRoom,
				Title:    "Riverside Cottage",
				Price:    4500,
				Quantity: 2,
				CheckIn:  &checkIn,
				CheckOut: &checkOut,
				Guests:   3,
			},
			{
				ID:           "item-act",
				Type:         models.ItemTypeActivity,
				Title:        "White Water Rafting",
				Price:        1200,
				Quantity:     1,
				SelectedDate: &activityDate,
				Duration:     "3 hours",
			},
		},
		Subtotal:      10200,
		Tax:           1836,
		Total:         12036,
		PaymentMethod: "UPI",
		Status:        models.StatusConfirmed,
		BookedAt:      time.Date(2026, 3, 1, 18, 45, 12, 0, time.UTC),
	}
}

func TestBookingRoundTrip(t *testing.T) {
	original := sampleBooking()

	raw, err := EncodeBooking(original)
	require.NoError(t, err)

	decoded, err := DecodeBooking(raw)
	require.NoError(t, err)

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.BookingID, decoded.BookingID)
	assert.Equal(t, original.UserEmail, decoded.UserEmail)
	assert.Equal(t, original.Subtotal, decoded.Subtotal)
	assert.Equal(t, original.Tax, decoded.Tax)
	assert.Equal(t, original.Total, decoded.Total)
	assert.Equal(t, original.PaymentMethod, decoded.PaymentMethod)
	assert.Equal(t, original.Status, decoded.Status)
	assert.True(t, original.BookedAt.Equal(decoded.BookedAt))

	require.Len(t, decoded.Items, 2)
	assert.True(t, original.Items[0].CheckIn.Equal(*decoded.Items[0].CheckIn))
	assert.True(t, original.Items[0].CheckOut.Equal(*decoded.Items[0].CheckOut))
	assert.Equal(t, 3, decoded.Items[0].Guests)
	assert.True(t, original.Items[1].SelectedDate.Equal(*decoded.Items[1].SelectedDate))
	assert.Equal(t, "3 hours", decoded.Items[1].Duration)
	assert.Nil(t, decoded.Items[1].CheckIn)
}

func TestBookingsRoundTripPreservesOrder(t *testing.T) {
	first := sampleBooking()
	second := sampleBooking()
	second.ID = "second-id"
	second.BookingID = "DHR-000002"

	raw, err := EncodeBookings([]models.Booking{first, second})
	require.NoError(t, err)

	decoded, err := DecodeBookings(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, first.ID, decoded[0].ID)
	assert.Equal(t, second.ID, decoded[1].ID)
}

func TestDecodeBookingMalformed(t *testing.T) {
	cases := map[string]string{
		"NotJSON":        `{"id": `,
		"EmptyID":        `{"id":"","status":"confirmed","bookedAt":"2026-03-01T18:45:12Z"}`,
		"UnknownStatus":  `{"id":"x","status":"rejected","bookedAt":"2026-03-01T18:45:12Z"}`,
		"BadBookedAt":    `{"id":"x","status":"confirmed","bookedAt":"yesterday"}`,
		"UnknownType":    `{"id":"x","status":"confirmed","bookedAt":"2026-03-01T18:45:12Z","items":[{"id":"i","type":"spa","price":10,"quantity":1}]}`,
		"NegativePrice":  `{"id":"x","status":"confirmed","bookedAt":"2026-03-01T18:45:12Z","items":[{"id":"i","type":"room","price":-1,"quantity":1}]}`,
		"ZeroQuantity":   `{"id":"x","status":"confirmed","bookedAt":"2026-03-01T18:45:12Z","items":[{"id":"i","type":"room","price":10,"quantity":0}]}`,
		"BadItemInstant": `{"id":"x","status":"confirmed","bookedAt":"2026-03-01T18:45:12Z","items":[{"id":"i","type":"room","price":10,"quantity":1,"checkIn":"soon"}]}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBooking(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestDecodeBookingsMalformedArray(t *testing.T) {
	_, err := DecodeBookings(`{"not":"an array"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecodeBookingsEmptyArray(t *testing.T) {
	decoded, err := DecodeBookings(`[]`)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeAcceptsMillisecondInstants(t *testing.T) {
	// The storefront historically wrote Date.toISOString() values.
	raw := `{"id":"x","bookingId":"DHR-1","userEmail":"g@e.com","status":"confirmed",` +
		`"bookedAt":"2026-03-01T18:45:12.345Z","items":[]}`

	decoded, err := DecodeBooking(raw)
	require.NoError(t, err)
	expected := time.Date(2026, 3, 1, 18, 45, 12, 345000000, time.UTC)
	assert.True(t, expected.Equal(decoded.BookedAt))
}
