package create_hold

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание холда
type Request struct {
	ShopID             int64
	StylistID          int64
	ServiceID          int64
	SecondaryServiceID *int64 // вторая услуга для комбо-брони (опционально)
	StartTime          time.Time
	CustomerUserID     int64
	CustomerName       string
	CustomerEmail      *string
	CustomerPhone      *string
	PromoID            *int64 // промо, выбранное клиентом явно (опционально)
}

// Response модель ответа с данными созданного холда
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
	HoldExpiresAt      time.Time
	PriceCents         int64
	DiscountCents      int64
	PromoID            *int64
}
