package expire_holds

import (
	"context"
	"fmt"
	"time"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ExpireStale помечает холды с вышедшим TTL статусом expired
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncHoldsExpired(n int64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// UseCase фоновая зачистка истёкших холдов
// Корректность от зачистки не зависит: предикат занятости исключает
// истёкшие холды при чтении. Зачистка нужна только чтобы терминальный
// статус expired был виден в истории и выборках
type UseCase struct {
	bookingRepo  BookingRepository
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет один проход зачистки
func (uc *UseCase) Execute(ctx context.Context) (int64, error) {
	now := uc.timeProvider.Now()

	expired, err := uc.bookingRepo.ExpireStale(ctx, now)
	if err != nil {
		uc.logger.Error("ExpireHolds: sweep failed: %v", err)
		return 0, fmt.Errorf("expire_holds: sweep failed: %w", err)
	}

	if expired > 0 {
		uc.metrics.IncHoldsExpired(expired)
		uc.logger.Info("ExpireHolds: swept %d stale holds", expired)
	}

	return expired, nil
}

// Run запускает периодическую зачистку до отмены контекста
func (uc *UseCase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uc.logger.Info("ExpireHolds: sweeper started, interval=%s", interval)

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("ExpireHolds: sweeper stopped")
			return
		case <-ticker.C:
			// Ошибка уже залогирована; следующий тик попробует снова
			_, _ = uc.Execute(ctx)
		}
	}
}
