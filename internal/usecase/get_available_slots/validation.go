package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.SecondaryServiceID != nil {
		if *req.SecondaryServiceID <= 0 {
			return fmt.Errorf("%w: secondaryServiceID must be positive", ErrInvalidInput)
		}
		if *req.SecondaryServiceID == req.ServiceID {
			return fmt.Errorf("%w: combo requires two distinct services", ErrInvalidInput)
		}
	}

	if req.StylistID != nil && *req.StylistID <= 0 {
		return fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.UTCOffsetMinutes < domain.MinUTCOffsetMinutes || req.UTCOffsetMinutes > domain.MaxUTCOffsetMinutes {
		return fmt.Errorf("%w: utcOffsetMinutes must be within [%d, %d]",
			ErrInvalidInput, domain.MinUTCOffsetMinutes, domain.MaxUTCOffsetMinutes)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом относительно "сегодня" клиента
// Смещение клиента используется только здесь: какой календарный день
// считать сегодняшним решает клиент, а не сервер и не салон
func validateDate(requestDate time.Time, now time.Time, utcOffsetMinutes int) error {
	today := callerToday(now, utcOffsetMinutes)
	if isDateBefore(requestDate, today) {
		return ErrInvalidDate
	}
	return nil
}
