package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	// StatusHold временная бронь с TTL, ещё не гарантирована
	StatusHold BookingStatus = "hold"
	// StatusConfirmed подтверждённая бронь, терминальный статус (кроме отмены)
	StatusConfirmed BookingStatus = "confirmed"
	// StatusCancelled отменённая бронь, терминальный статус
	StatusCancelled BookingStatus = "cancelled"
	// StatusExpired холд, у которого вышел TTL (проставляется фоновой зачисткой;
	// для корректности не требуется: занятость всегда считается через OccupiesSlot)
	StatusExpired BookingStatus = "expired"
)

// Booking represents a reservation of a stylist's time slot
type Booking struct {
	ID                 int64
	Reference          uuid.UUID // публичный код брони для клиента
	ShopID             int64
	ServiceID          int64
	SecondaryServiceID *int64 // вторая услуга комбо-брони (nil для одиночной)
	StylistID          int64
	StartTime          time.Time // UTC
	EndTime            time.Time // UTC, производное от длительности услуг(и)
	Status             BookingStatus
	HoldExpiresAt      *time.Time // заполнено только при Status = hold

	// Идентичность клиента: CustomerUserID - аутентифицированный пользователь,
	// создавший холд; контактные поля снапшотятся для уведомлений
	CustomerUserID int64
	CustomerName   string
	CustomerEmail  *string
	CustomerPhone  *string

	// Snapshot цен на момент создания холда; при confirm не пересчитывается
	PriceCents    int64
	DiscountCents int64
	PromoID       *int64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the booking occupies its slot at the given instant.
// Единственный предикат занятости: им пользуются генератор слотов,
// проверка пересечений при создании холда и подтверждение
func (b *Booking) OccupiesSlot(now time.Time) bool {
	switch b.Status {
	case StatusConfirmed:
		return true
	case StatusHold:
		return b.HoldExpiresAt != nil && b.HoldExpiresAt.After(now)
	default:
		return false
	}
}

// IsCombo returns true if the booking covers two services back-to-back
func (b *Booking) IsCombo() bool {
	return b.SecondaryServiceID != nil
}

// IsHoldExpired returns true if the booking is a hold whose TTL has passed
func (b *Booking) IsHoldExpired(now time.Time) bool {
	return b.Status == StatusHold && b.HoldExpiresAt != nil && !b.HoldExpiresAt.After(now)
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusHold || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// FinalPriceCents returns the price after the snapshotted discount
func (b *Booking) FinalPriceCents() int64 {
	return b.PriceCents - b.DiscountCents
}

// Overlaps returns true if the booking's [start, end) interval intersects
// the given one. Границы не считаются пересечением: бронь до 09:30
// не конфликтует с бронью с 09:30
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// StylistDayFilter фильтр бронирований мастеров на интервал времени
type StylistDayFilter struct {
	ShopID    int64
	StylistID *int64    // nil - все мастера салона
	From      time.Time // начало интервала (UTC, включительно)
	To        time.Time // конец интервала (UTC, не включительно)
}
