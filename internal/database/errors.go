package database

import "errors"

var (
	// ErrBookingNotFound signals an update whose internal id matched nothing.
	ErrBookingNotFound = errors.New("booking not found")
)
