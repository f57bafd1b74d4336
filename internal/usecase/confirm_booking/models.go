package confirm_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на подтверждение холда
type Request struct {
	BookingID      int64
	CustomerUserID int64
}

// Response модель ответа с данными подтверждённой брони
type Response struct {
	BookingID          int64
	Reference          uuid.UUID
	Status             string
	ShopID             int64
	StylistID          int64
	ServiceID          int64
	SecondaryServiceID *int64
	StartTime          time.Time
	EndTime            time.Time
	PriceCents         int64
	DiscountCents      int64
	PromoID            *int64

	// AlreadyConfirmed true, если бронь была подтверждена ранее
	AlreadyConfirmed bool
}
