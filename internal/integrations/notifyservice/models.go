package notifyservice

import (
	"time"

	"github.com/google/uuid"
)

// BookingConfirmedEvent событие подтверждения брони для сервиса уведомлений
// Содержимое и каналы доставки уведомлений - зона ответственности NotifyService
type BookingConfirmedEvent struct {
	BookingID      int64     `json:"bookingId"`
	Reference      uuid.UUID `json:"reference"`
	ShopID         int64     `json:"shopId"`
	StylistID      int64     `json:"stylistId"`
	ServiceID      int64     `json:"serviceId"`
	CustomerUserID int64     `json:"customerUserId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
