package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetOccupyingByFilter получает брони, занимающие слоты на момент now
	GetOccupyingByFilter(ctx context.Context, filter domain.StylistDayFilter, now time.Time) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс каталога салонов, мастеров и услуг
type CatalogRepository interface {
	GetShop(ctx context.Context, shopID int64) (*domain.Shop, error)
	GetStylist(ctx context.Context, shopID, stylistID int64) (*domain.Stylist, error)
	ListActiveStylists(ctx context.Context, shopID int64) ([]*domain.Stylist, error)
	GetService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error)
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
