package create_hold

import (
	"time"

	createHold "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_hold"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	ShopID             int64   `json:"shopId"`
	StylistID          int64   `json:"stylistId"`
	ServiceID          int64   `json:"serviceId"`
	SecondaryServiceID *int64  `json:"secondaryServiceId,omitempty"`
	StartTime          string  `json:"startTime"` // ISO 8601
	CustomerName       string  `json:"customerName"`
	CustomerEmail      *string `json:"customerEmail,omitempty"`
	CustomerPhone      *string `json:"customerPhone,omitempty"`
	PromoID            *int64  `json:"promoId,omitempty"`
}

// HoldResponse HTTP response model
type HoldResponse struct {
	BookingID          int64  `json:"bookingId"`
	Reference          string `json:"reference"`
	Status             string `json:"status"`
	ShopID             int64  `json:"shopId"`
	StylistID          int64  `json:"stylistId"`
	ServiceID          int64  `json:"serviceId"`
	SecondaryServiceID *int64 `json:"secondaryServiceId,omitempty"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
	HoldExpiresAt      string `json:"holdExpiresAt"`
	PriceCents         int64  `json:"priceCents"`
	DiscountCents      int64  `json:"discountCents"`
	FinalCents         int64  `json:"finalCents"`
	PromoID            *int64 `json:"promoId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest(userID int64) (*createHold.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createHold.Request{
		ShopID:             r.ShopID,
		StylistID:          r.StylistID,
		ServiceID:          r.ServiceID,
		SecondaryServiceID: r.SecondaryServiceID,
		StartTime:          startTime,
		CustomerUserID:     userID,
		CustomerName:       r.CustomerName,
		CustomerEmail:      r.CustomerEmail,
		CustomerPhone:      r.CustomerPhone,
		PromoID:            r.PromoID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createHold.Response) *HoldResponse {
	return &HoldResponse{
		BookingID:          resp.BookingID,
		Reference:          resp.Reference.String(),
		Status:             resp.Status,
		ShopID:             resp.ShopID,
		StylistID:          resp.StylistID,
		ServiceID:          resp.ServiceID,
		SecondaryServiceID: resp.SecondaryServiceID,
		StartTime:          resp.StartTime.UTC().Format(time.RFC3339),
		EndTime:            resp.EndTime.UTC().Format(time.RFC3339),
		HoldExpiresAt:      resp.HoldExpiresAt.UTC().Format(time.RFC3339),
		PriceCents:         resp.PriceCents,
		DiscountCents:      resp.DiscountCents,
		FinalCents:         resp.PriceCents - resp.DiscountCents,
		PromoID:            resp.PromoID,
	}
}
