package promos

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// PromoRepository интерфейс репозитория промо-акций
type PromoRepository interface {
	GetByID(ctx context.Context, shopID, promoID int64) (*domain.Promo, error)
	ListActive(ctx context.Context, shopID int64, now time.Time) ([]*domain.Promo, error)
	CountCustomerUsage(ctx context.Context, promoID, customerUserID int64) (int, error)
}

// CatalogRepository интерфейс каталога для комбо-правил
type CatalogRepository interface {
	GetComboRule(ctx context.Context, shopID, serviceAID, serviceBID int64) (*domain.ComboRule, error)
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
