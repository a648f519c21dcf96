package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resorthub/internal/codec"
	"resorthub/internal/models"
)

func bookingsKey(userEmail string) string {
	return "bookings_" + userEmail
}

// Append adds a booking to the end of its owner's list.
func (db *DB) Append(ctx context.Context, booking models.Booking) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	key := bookingsKey(booking.UserEmail)
	bookings := db.loadListTx(ctx, tx, key)
	bookings = append(bookings, booking)

	if err := db.saveListTx(ctx, tx, key, bookings); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadAll returns the owner's bookings in insertion order. A missing row or
// an undecodable payload yields an empty list; the bad payload is cleared so
// the failure does not recur.
func (db *DB) LoadAll(ctx context.Context, userEmail string) ([]models.Booking, error) {
	key := bookingsKey(userEmail)

	var payload string
	err := db.db.QueryRowContext(ctx, `SELECT payload FROM booking_lists WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Booking{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s: %w", userEmail, err)
	}

	bookings, err := codec.DecodeBookings(payload)
	if err != nil {
		db.logger.Error().Err(err).Str("key", key).Msg("stored bookings payload is malformed, clearing")
		db.clearKey(ctx, key)
		return []models.Booking{}, nil
	}
	return bookings, nil
}

// Update replaces the entry whose internal id matches, preserving list order.
func (db *DB) Update(ctx context.Context, id string, updated models.Booking) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	key := bookingsKey(updated.UserEmail)
	bookings := db.loadListTx(ctx, tx, key)

	found := false
	for i, b := range bookings {
		if b.ID == id {
			bookings[i] = updated
			found = true
			break
		}
	}
	if !found {
		return ErrBookingNotFound
	}

	if err := db.saveListTx(ctx, tx, key, bookings); err != nil {
		return err
	}
	return tx.Commit()
}

// loadListTx reads the current list inside a transaction, fail-soft: malformed
// payloads decode to an empty list (the subsequent save overwrites them).
func (db *DB) loadListTx(ctx context.Context, tx *sql.Tx, key string) []models.Booking {
	var payload string
	err := tx.QueryRowContext(ctx, `SELECT payload FROM booking_lists WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Booking{}
	}
	if err != nil {
		db.logger.Error().Err(err).Str("key", key).Msg("failed to read booking list, treating as empty")
		return []models.Booking{}
	}

	bookings, err := codec.DecodeBookings(payload)
	if err != nil {
		db.logger.Error().Err(err).Str("key", key).Msg("stored bookings payload is malformed, treating as empty")
		return []models.Booking{}
	}
	return bookings
}

func (db *DB) saveListTx(ctx context.Context, tx *sql.Tx, key string, bookings []models.Booking) error {
	payload, err := codec.EncodeBookings(bookings)
	if err != nil {
		return fmt.Errorf("failed to encode booking list %s: %w", key, err)
	}

	query := `INSERT INTO booking_lists (key, payload, updated_at) VALUES (?, ?, ?)
              ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := tx.ExecContext(ctx, query, key, payload, time.Now()); err != nil {
		return fmt.Errorf("failed to save booking list %s: %w", key, err)
	}
	return nil
}

func (db *DB) clearKey(ctx context.Context, key string) {
	if _, err := db.db.ExecContext(ctx, `DELETE FROM booking_lists WHERE key = ?`, key); err != nil {
		db.logger.Error().Err(err).Str("key", key).Msg("failed to clear malformed booking list")
	}
}
