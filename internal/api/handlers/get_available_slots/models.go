package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date               string          `json:"date"`
	ShopID             int64           `json:"shopId"`
	ServiceID          int64           `json:"serviceId"`
	SecondaryServiceID *int64          `json:"secondaryServiceId,omitempty"`
	DurationMinutes    int             `json:"durationMinutes"`
	Slots              []AvailableSlot `json:"slots"`
}

// AvailableSlot модель доступного слота
type AvailableSlot struct {
	StylistID int64  `json:"stylistId"`
	StartTime string `json:"startTime"` // ISO 8601, UTC
	EndTime   string `json:"endTime"`   // ISO 8601, UTC
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StylistID: slot.StylistID,
			StartTime: slot.StartTime.UTC().Format(time.RFC3339),
			EndTime:   slot.EndTime.UTC().Format(time.RFC3339),
		}
	}

	return &AvailableSlotsResponse{
		Date:               resp.Date.Format(domain.DateFormat),
		ShopID:             resp.ShopID,
		ServiceID:          resp.ServiceID,
		SecondaryServiceID: resp.SecondaryServiceID,
		DurationMinutes:    resp.DurationMinutes,
		Slots:              slots,
	}
}

// ToUseCaseRequest создает запрос use case из path и query параметров
func ToUseCaseRequest(shopID, serviceID int64, dateStr string, secondaryServiceID, stylistID *int64, utcOffsetStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	utcOffsetMinutes := 0
	if utcOffsetStr != "" {
		utcOffsetMinutes, err = strconv.Atoi(utcOffsetStr)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailableSlots.Request{
		ShopID:             shopID,
		ServiceID:          serviceID,
		SecondaryServiceID: secondaryServiceID,
		Date:               date,
		UTCOffsetMinutes:   utcOffsetMinutes,
		StylistID:          stylistID,
	}, nil
}
