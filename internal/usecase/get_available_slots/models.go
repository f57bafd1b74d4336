package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ShopID             int64
	ServiceID          int64
	SecondaryServiceID *int64    // вторая услуга для комбо-брони (опционально)
	Date               time.Time // локальная календарная дата салона (без времени)
	UTCOffsetMinutes   int       // смещение клиента от UTC в минутах
	StylistID          *int64    // фильтр по мастеру (опционально)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date               time.Time
	ShopID             int64
	ServiceID          int64
	SecondaryServiceID *int64
	DurationMinutes    int // суммарная длительность услуг(и)
	Slots              []domain.TimeSlot
}
