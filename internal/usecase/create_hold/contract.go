package create_hold

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/promos"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// Create создает новое бронирование в статусе hold
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)

	// FindOccupyingOverlaps получает занимающие брони мастера, пересекающие интервал [start, end)
	FindOccupyingOverlaps(ctx context.Context, shopID, stylistID int64, start, end, now time.Time) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс каталога салонов, мастеров и услуг
type CatalogRepository interface {
	GetShop(ctx context.Context, shopID int64) (*domain.Shop, error)
	GetStylist(ctx context.Context, shopID, stylistID int64) (*domain.Stylist, error)
	GetService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error)
}

// PromoResolver интерфейс расчёта скидки на момент создания холда
type PromoResolver interface {
	Resolve(ctx context.Context, req *promos.Request) (*promos.Resolution, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncHoldCreated()
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
