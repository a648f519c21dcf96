package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"resorthub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "resorthub.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testBooking(id, email string) models.Booking {
	checkIn := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return models.Booking{
		ID:        id,
		BookingID: "DHR-" + id,
		UserEmail: email,
		Items: []models.LineItem{
			{ID: "item-" + id, Type: models.ItemTypeRoom, Title: "Cottage", Price: 4500, Quantity: 1, CheckIn: &checkIn},
		},
		Subtotal:      4500,
		Tax:           810,
		Total:         5310,
		PaymentMethod: "UPI",
		Status:        models.StatusConfirmed,
		BookedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestLoadAllEmpty(t *testing.T) {
	db := newTestDB(t)

	bookings, err := db.LoadAll(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NotNil(t, bookings)
}

func TestAppendAndLoadAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Append(ctx, testBooking("one", "guest@example.com")))
	require.NoError(t, db.Append(ctx, testBooking("two", "guest@example.com")))
	require.NoError(t, db.Append(ctx, testBooking("other", "someone@example.com")))

	bookings, err := db.LoadAll(ctx, "guest@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "one", bookings[0].ID)
	assert.Equal(t, "two", bookings[1].ID)
	assert.True(t, bookings[0].Items[0].CheckIn.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)))

	other, err := db.LoadAll(ctx, "someone@example.com")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "other", other[0].ID)
}

func TestUpdatePreservesOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, db.Append(ctx, testBooking(id, "guest@example.com")))
	}

	updated := testBooking("b", "guest@example.com")
	updated.Items[0].Quantity = 3
	updated.Subtotal = 13500
	updated.Tax = 2430
	updated.Total = 15930

	require.NoError(t, db.Update(ctx, "b", updated))

	bookings, err := db.LoadAll(ctx, "guest@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{bookings[0].ID, bookings[1].ID, bookings[2].ID})
	assert.Equal(t, int64(15930), bookings[1].Total)
	assert.Equal(t, int64(5310), bookings[0].Total)
}

func TestUpdateNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Append(ctx, testBooking("a", "guest@example.com")))

	err := db.Update(ctx, "missing", testBooking("missing", "guest@example.com"))
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// The stored list is untouched.
	bookings, err := db.LoadAll(ctx, "guest@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "a", bookings[0].ID)
}

func TestLoadAllMalformedPayloadFailsSoft(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.db.ExecContext(ctx,
		`INSERT INTO booking_lists (key, payload) VALUES (?, ?)`,
		"bookings_guest@example.com", `{"broken":`)
	require.NoError(t, err)

	bookings, err := db.LoadAll(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.Empty(t, bookings)

	// The offending payload was cleared so it does not recur.
	var count int
	require.NoError(t, db.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM booking_lists WHERE key = ?`, "bookings_guest@example.com").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestAppendOverMalformedPayloadStartsFresh(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.db.ExecContext(ctx,
		`INSERT INTO booking_lists (key, payload) VALUES (?, ?)`,
		"bookings_guest@example.com", `not json at all`)
	require.NoError(t, err)

	require.NoError(t, db.Append(ctx, testBooking("fresh", "guest@example.com")))

	bookings, err := db.LoadAll(ctx, "guest@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "fresh", bookings[0].ID)
}
