package confirm_booking

import (
	"time"

	confirmBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
)

// ConfirmResponse HTTP response model
type ConfirmResponse struct {
	BookingID          int64  `json:"bookingId"`
	Reference          string `json:"reference"`
	Status             string `json:"status"`
	ShopID             int64  `json:"shopId"`
	StylistID          int64  `json:"stylistId"`
	ServiceID          int64  `json:"serviceId"`
	SecondaryServiceID *int64 `json:"secondaryServiceId,omitempty"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
	PriceCents         int64  `json:"priceCents"`
	DiscountCents      int64  `json:"discountCents"`
	FinalCents         int64  `json:"finalCents"`
	PromoID            *int64 `json:"promoId,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmBooking.Response) *ConfirmResponse {
	return &ConfirmResponse{
		BookingID:          resp.BookingID,
		Reference:          resp.Reference.String(),
		Status:             resp.Status,
		ShopID:             resp.ShopID,
		StylistID:          resp.StylistID,
		ServiceID:          resp.ServiceID,
		SecondaryServiceID: resp.SecondaryServiceID,
		StartTime:          resp.StartTime.UTC().Format(time.RFC3339),
		EndTime:            resp.EndTime.UTC().Format(time.RFC3339),
		PriceCents:         resp.PriceCents,
		DiscountCents:      resp.DiscountCents,
		FinalCents:         resp.PriceCents - resp.DiscountCents,
		PromoID:            resp.PromoID,
	}
}
