package confirm_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByID получает бронирование по ID (с блокировкой строки внутри транзакции)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)

	// Confirm переводит живой холд в confirmed; ноль затронутых строк - ErrBookingNotFound
	Confirm(ctx context.Context, id int64, now time.Time) error

	// FindOccupyingOverlaps получает занимающие брони мастера, пересекающие интервал [start, end)
	FindOccupyingOverlaps(ctx context.Context, shopID, stylistID int64, start, end, now time.Time) ([]*domain.Booking, error)
}

// NotifyServiceClient интерфейс клиента сервиса уведомлений
type NotifyServiceClient interface {
	SendBookingConfirmed(ctx context.Context, event *notifyservice.BookingConfirmedEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncBookingConfirmed()
	IncSlotConflict()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
