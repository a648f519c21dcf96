package models

const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

const (
	// BookingCodePrefix prefixes every human-facing booking code.
	BookingCodePrefix = "DHR"

	// DefaultSessionTTL bounds how long a modification marker lives in Redis (seconds).
	DefaultSessionTTL = 24 * 60 * 60

	// WorkerQueueSize is the in-memory queue capacity of the export worker.
	WorkerQueueSize = 128
)

// KnownStatus reports whether s is one of the booking status variants.
func KnownStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}
