package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/schedule"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Занятость читается на момент now: истёкшие холды не блокируют слоты
// даже до того, как их подберёт фоновая зачистка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: shop=%d, service=%d, date=%s",
		req.ShopID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что дата не в прошлом для клиента
	if err := validateDate(req.Date, now, req.UTCOffsetMinutes); err != nil {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 4. Получаем салон
	shop, err := uc.catalogRepo.GetShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	// 5. Получаем услугу (и вторую услугу для комбо)
	totalDuration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 6. Определяем мастеров, по которым считаем слоты
	stylists, err := uc.resolveStylists(ctx, req)
	if err != nil {
		return nil, err
	}

	// 7. Получаем занимающие брони на весь день салона одним запросом
	dayStart, dayEnd, err := schedule.DayBoundsUTC(shop, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute day bounds for shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to compute day bounds: %v", ErrInternal, err)
	}

	filter := domain.StylistDayFilter{
		ShopID:    req.ShopID,
		StylistID: req.StylistID,
		From:      dayStart,
		To:        dayEnd,
	}

	bookings, err := uc.bookingRepo.GetOccupyingByFilter(ctx, filter, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	grouped := bookingsByStylist(bookings)

	// 8. Для каждого мастера: рабочие часы -> свободные интервалы -> слоты
	slots := make([]domain.TimeSlot, 0)
	for _, stylist := range stylists {
		intervals, err := schedule.ResolveOpenIntervals(shop, stylist, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to resolve hours for stylist id=%d: %v", stylist.ID, err)
			return nil, fmt.Errorf("%w: failed to resolve working hours: %v", ErrInternal, err)
		}

		free := subtractBookings(intervals, grouped[stylist.ID])
		slots = append(slots, enumerateSlots(stylist.ID, free, totalDuration, now)...)
	}

	// 9. Единый порядок: по времени начала, затем по ID мастера
	sortSlots(slots)

	uc.logger.Info("GetAvailableSlots: generated %d slots for shop=%d, service=%d, date=%s",
		len(slots), req.ShopID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:               req.Date,
		ShopID:             req.ShopID,
		ServiceID:          req.ServiceID,
		SecondaryServiceID: req.SecondaryServiceID,
		DurationMinutes:    int(totalDuration / time.Minute),
		Slots:              slots,
	}, nil
}

// resolveDuration получает услуги запроса и возвращает их суммарную длительность
// Для комбо обе услуги должны быть активны и допускать комбо-запись;
// комбо-бронь занимает один непрерывный интервал у одного мастера
func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (time.Duration, error) {
	service, err := uc.getActiveService(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		return 0, err
	}

	total := time.Duration(service.DurationMinutes) * time.Minute

	if req.SecondaryServiceID == nil {
		return total, nil
	}

	secondary, err := uc.getActiveService(ctx, req.ShopID, *req.SecondaryServiceID)
	if err != nil {
		return 0, err
	}

	if !service.ComboEligible || !secondary.ComboEligible {
		uc.logger.Warn("GetAvailableSlots: services %d+%d are not combo-eligible",
			req.ServiceID, *req.SecondaryServiceID)
		return 0, ErrComboNotAllowed
	}

	return total + time.Duration(secondary.DurationMinutes)*time.Minute, nil
}

// getActiveService получает услугу и проверяет, что она активна
func (uc *UseCase) getActiveService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error) {
	service, err := uc.catalogRepo.GetService(ctx, shopID, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", serviceID)
		return nil, ErrServiceInactive
	}

	return service, nil
}

// resolveStylists возвращает список мастеров для перечисления слотов:
// один указанный мастер либо все активные мастера салона
func (uc *UseCase) resolveStylists(ctx context.Context, req *Request) ([]*domain.Stylist, error) {
	if req.StylistID != nil {
		stylist, err := uc.catalogRepo.GetStylist(ctx, req.ShopID, *req.StylistID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStylistNotFound) {
				uc.logger.Warn("GetAvailableSlots: stylist id=%d not found in shop id=%d", *req.StylistID, req.ShopID)
				return nil, ErrStylistNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get stylist id=%d: %v", *req.StylistID, err)
			return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
		}
		if !stylist.Active {
			uc.logger.Warn("GetAvailableSlots: stylist id=%d is inactive", *req.StylistID)
			return nil, ErrStylistNotFound
		}
		return []*domain.Stylist{stylist}, nil
	}

	stylists, err := uc.catalogRepo.ListActiveStylists(ctx, req.ShopID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list stylists for shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to list stylists: %v", ErrInternal, err)
	}

	return stylists, nil
}
