package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/promos"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case для создания холда на слот
type UseCase struct {
	bookingRepo   BookingRepository
	catalogRepo   CatalogRepository
	promoResolver PromoResolver
	txManager     TransactionManager
	metrics       Metrics
	holdTTL       time.Duration
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
// holdTTL <= 0 означает TTL по умолчанию
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	promoResolver PromoResolver,
	txManager TransactionManager,
	metrics Metrics,
	holdTTL time.Duration,
	logger Logger,
) *UseCase {
	if holdTTL <= 0 {
		holdTTL = domain.DefaultHoldTTL
	}

	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogRepo:   catalogRepo,
		promoResolver: promoResolver,
		txManager:     txManager,
		metrics:       metrics,
		holdTTL:       holdTTL,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания холда
// Проверка занятости и вставка выполняются в одной сериализуемой транзакции:
// из двух конкурентных запросов на один слот ровно один получает холд
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: shop=%d, stylist=%d, service=%d, user=%d, start=%s",
		req.ShopID, req.StylistID, req.ServiceID, req.CustomerUserID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	startTime := req.StartTime.UTC()
	if !startTime.After(now) {
		uc.logger.Warn("CreateHold: start time %s is in the past", startTime.Format(time.RFC3339))
		return nil, ErrStartTimeInPast
	}

	// 3. Получаем салон
	shop, err := uc.catalogRepo.GetShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrShopNotFound) {
			uc.logger.Warn("CreateHold: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("CreateHold: failed to get shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	// 4. Получаем услуги: суммарная длительность и базовая цена
	totalDuration, basePriceCents, err := uc.resolveServices(ctx, req)
	if err != nil {
		return nil, err
	}

	endTime := startTime.Add(totalDuration)

	// 5. Получаем мастера
	stylist, err := uc.catalogRepo.GetStylist(ctx, req.ShopID, req.StylistID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			uc.logger.Warn("CreateHold: stylist id=%d not found in shop id=%d", req.StylistID, req.ShopID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("CreateHold: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}
	if !stylist.Active {
		uc.logger.Warn("CreateHold: stylist id=%d is inactive", req.StylistID)
		return nil, ErrStylistNotFound
	}

	// 6. Проверяем, что интервал целиком лежит в рабочих часах мастера
	// Комбо занимает один непрерывный интервал, так что проверка общая
	if err := uc.validateWithinWorkingHours(shop, stylist, startTime, endTime); err != nil {
		return nil, err
	}

	// 7. Рассчитываем скидку; сбой резолвера не блокирует бронирование
	discountCents, promoID := uc.resolveDiscount(ctx, req, basePriceCents)

	// 8. Собираем холд со снапшотом цены
	booking := &domain.Booking{
		Reference:          uuid.New(),
		ShopID:             req.ShopID,
		ServiceID:          req.ServiceID,
		SecondaryServiceID: req.SecondaryServiceID,
		StylistID:          req.StylistID,
		StartTime:          startTime,
		EndTime:            endTime,
		Status:             domain.StatusHold,
		HoldExpiresAt:      ptr.Ptr(now.Add(uc.holdTTL)),
		CustomerUserID:     req.CustomerUserID,
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		PriceCents:         basePriceCents,
		DiscountCents:      discountCents,
		PromoID:            promoID,
	}

	// 9. Проверка пересечений и вставка в одной сериализуемой транзакции
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		overlaps, err := uc.bookingRepo.FindOccupyingOverlaps(txCtx, req.ShopID, req.StylistID, startTime, endTime, now)
		if err != nil {
			uc.logger.Error("CreateHold: failed to check overlaps: %v", err)
			return fmt.Errorf("%w: failed to check overlaps: %w", ErrInternal, err)
		}

		if len(overlaps) > 0 {
			uc.logger.Info("CreateHold: slot conflict for stylist=%d at %s (%d overlapping)",
				req.StylistID, startTime.Format(time.RFC3339), len(overlaps))
			return ErrSlotConflict
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateHold: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.metrics.IncSlotConflict()
		}
		return nil, err
	}

	uc.metrics.IncHoldCreated()
	uc.logger.Info("CreateHold: created booking id=%d, reference=%s, expires=%s",
		created.ID, created.Reference, created.HoldExpiresAt.Format(time.RFC3339))

	return &Response{
		BookingID:          created.ID,
		Reference:          created.Reference,
		Status:             string(created.Status),
		ShopID:             created.ShopID,
		StylistID:          created.StylistID,
		ServiceID:          created.ServiceID,
		SecondaryServiceID: created.SecondaryServiceID,
		StartTime:          created.StartTime,
		EndTime:            created.EndTime,
		HoldExpiresAt:      *created.HoldExpiresAt,
		PriceCents:         created.PriceCents,
		DiscountCents:      created.DiscountCents,
		PromoID:            created.PromoID,
	}, nil
}

// resolveServices получает услуги запроса и возвращает суммарную длительность
// и базовую цену. Для комбо обе услуги должны допускать комбо-запись
func (uc *UseCase) resolveServices(ctx context.Context, req *Request) (time.Duration, int64, error) {
	service, err := uc.getActiveService(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		return 0, 0, err
	}

	duration := time.Duration(service.DurationMinutes) * time.Minute
	price := service.PriceCents

	if req.SecondaryServiceID == nil {
		return duration, price, nil
	}

	secondary, err := uc.getActiveService(ctx, req.ShopID, *req.SecondaryServiceID)
	if err != nil {
		return 0, 0, err
	}

	if !service.ComboEligible || !secondary.ComboEligible {
		uc.logger.Warn("CreateHold: services %d+%d are not combo-eligible", req.ServiceID, *req.SecondaryServiceID)
		return 0, 0, ErrComboNotAllowed
	}

	return duration + time.Duration(secondary.DurationMinutes)*time.Minute, price + secondary.PriceCents, nil
}

// getActiveService получает услугу и проверяет, что она активна
func (uc *UseCase) getActiveService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error) {
	service, err := uc.catalogRepo.GetService(ctx, shopID, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateHold: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateHold: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.Active {
		uc.logger.Warn("CreateHold: service id=%d is inactive", serviceID)
		return nil, ErrServiceInactive
	}

	return service, nil
}

// validateWithinWorkingHours проверяет, что [start, end) лежит в рабочих часах мастера
func (uc *UseCase) validateWithinWorkingHours(shop *domain.Shop, stylist *domain.Stylist, start, end time.Time) error {
	// Календарная дата берётся в локальном времени салона
	loc, err := shop.Location()
	if err != nil {
		uc.logger.Error("CreateHold: invalid shop timezone %q: %v", shop.Timezone, err)
		return fmt.Errorf("%w: invalid shop timezone: %v", ErrInternal, err)
	}

	intervals, err := schedule.ResolveOpenIntervals(shop, stylist, start.In(loc))
	if err != nil {
		uc.logger.Error("CreateHold: failed to resolve working hours: %v", err)
		return fmt.Errorf("%w: failed to resolve working hours: %v", ErrInternal, err)
	}

	for _, interval := range intervals {
		if interval.Contains(start, end) {
			return nil
		}
	}

	uc.logger.Warn("CreateHold: interval [%s, %s) is outside working hours of stylist id=%d",
		start.Format(time.RFC3339), end.Format(time.RFC3339), stylist.ID)
	return ErrOutsideWorkingHours
}

// resolveDiscount рассчитывает скидку холда; любая ошибка резолвера
// деградирует до отсутствия скидки
func (uc *UseCase) resolveDiscount(ctx context.Context, req *Request, basePriceCents int64) (int64, *int64) {
	resolution, err := uc.promoResolver.Resolve(ctx, &promos.Request{
		ShopID:             req.ShopID,
		ServiceID:          req.ServiceID,
		SecondaryServiceID: req.SecondaryServiceID,
		BasePriceCents:     basePriceCents,
		CustomerUserID:     ptr.Ptr(req.CustomerUserID),
		ExplicitPromoID:    req.PromoID,
		Trigger:            promos.TriggerHoldCreate,
	})
	if err != nil {
		uc.logger.Warn("CreateHold: promo resolution failed, booking without discount: %v", err)
		return 0, nil
	}

	return resolution.DiscountCents, resolution.PromoID()
}
