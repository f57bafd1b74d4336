package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64   `json:"id"`
	Reference          string  `json:"reference"`
	ShopID             int64   `json:"shopId"`
	StylistID          int64   `json:"stylistId"`
	ServiceID          int64   `json:"serviceId"`
	SecondaryServiceID *int64  `json:"secondaryServiceId,omitempty"`
	CustomerUserID     int64   `json:"customerUserId"`
	CustomerName       string  `json:"customerName"`
	StartTime          string  `json:"startTime"` // ISO 8601, UTC
	EndTime            string  `json:"endTime"`   // ISO 8601, UTC
	Status             string  `json:"status"`
	HoldExpiresAt      *string `json:"holdExpiresAt,omitempty"`

	// Снапшот цены на момент создания холда
	PriceCents    int64  `json:"priceCents"`
	DiscountCents int64  `json:"discountCents"`
	FinalCents    int64  `json:"finalCents"`
	PromoID       *int64 `json:"promoId,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		Reference:          b.Reference.String(),
		ShopID:             b.ShopID,
		StylistID:          b.StylistID,
		ServiceID:          b.ServiceID,
		SecondaryServiceID: b.SecondaryServiceID,
		CustomerUserID:     b.CustomerUserID,
		CustomerName:       b.CustomerName,
		StartTime:          b.StartTime.UTC().Format(time.RFC3339),
		EndTime:            b.EndTime.UTC().Format(time.RFC3339),
		Status:             string(b.Status),
		PriceCents:         b.PriceCents,
		DiscountCents:      b.DiscountCents,
		FinalCents:         b.FinalPriceCents(),
		PromoID:            b.PromoID,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.HoldExpiresAt != nil {
		expiresAt := b.HoldExpiresAt.UTC().Format(time.RFC3339)
		resp.HoldExpiresAt = &expiresAt
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			result.Bookings = append(result.Bookings, *resp)
		}
	}

	return result
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusHold, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusExpired:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
