package domain

import "time"

// Default configuration values
const (
	// DefaultHoldTTL время жизни неподтверждённого холда
	DefaultHoldTTL = 5 * time.Minute

	// DefaultSweepInterval период фоновой зачистки истёкших холдов
	DefaultSweepInterval = time.Minute
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов

	MaxCustomerNameLength       = 200
	MaxCancellationReasonLength = 500

	// MinUTCOffsetMinutes и MaxUTCOffsetMinutes - границы реальных смещений UTC
	MinUTCOffsetMinutes = -12 * 60
	MaxUTCOffsetMinutes = 14 * 60
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы, в которых бронь может занимать слот
// Для холдов занятость дополнительно зависит от hold_expires_at (см. Booking.OccupiesSlot)
var OccupyingStatuses = []BookingStatus{
	StatusHold,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых бронь уже не меняется движком
var TerminalStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCancelled,
	StatusExpired,
}
