package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// UseCase use case для подтверждения холда
type UseCase struct {
	bookingRepo  BookingRepository
	notifyClient NotifyServiceClient
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		notifyClient: notifyClient,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case подтверждения холда
// Операция идемпотентна: повторное подтверждение уже подтверждённой брони
// возвращает успех. Холд с вышедшим TTL подтвердить нельзя, даже если
// фоновая зачистка ещё не пометила его expired
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: booking=%d, user=%d", req.BookingID, req.CustomerUserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		booking          *domain.Booking
		alreadyConfirmed bool
	)

	// 3. Читаем с блокировкой и подтверждаем в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ConfirmBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("ConfirmBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if booking.CustomerUserID != req.CustomerUserID {
			uc.logger.Warn("ConfirmBooking: user=%d is not the owner of booking id=%d",
				req.CustomerUserID, req.BookingID)
			return ErrAccessDenied
		}

		switch booking.Status {
		case domain.StatusConfirmed:
			alreadyConfirmed = true
			return nil

		case domain.StatusCancelled:
			return ErrBookingCancelled

		case domain.StatusExpired:
			return ErrHoldExpired

		case domain.StatusHold:
			if booking.IsHoldExpired(now) {
				uc.logger.Info("ConfirmBooking: hold id=%d expired at %s",
					req.BookingID, booking.HoldExpiresAt.Format(time.RFC3339))
				return ErrHoldExpired
			}

			// Контрольная проверка занятости: слот не должен быть занят другой
			// бронью, созданной после этого холда
			if err := uc.checkSlotStillFree(txCtx, booking, now); err != nil {
				return err
			}

			if err := uc.bookingRepo.Confirm(txCtx, req.BookingID, now); err != nil {
				if errors.Is(err, bookingRepo.ErrBookingNotFound) {
					// Строка уже не живой холд; строка под блокировкой, так что это TTL
					return ErrHoldExpired
				}
				uc.logger.Error("ConfirmBooking: failed to confirm booking id=%d: %v", req.BookingID, err)
				return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
			}

			booking.Status = domain.StatusConfirmed
			booking.HoldExpiresAt = nil
			return nil

		default:
			return fmt.Errorf("%w: unexpected booking status %q", ErrInternal, booking.Status)
		}
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.metrics.IncSlotConflict()
		}
		return nil, err
	}

	if !alreadyConfirmed {
		uc.metrics.IncBookingConfirmed()
		uc.notifyConfirmed(ctx, booking)
	}

	uc.logger.Info("ConfirmBooking: booking id=%d confirmed (already=%t)", req.BookingID, alreadyConfirmed)

	return &Response{
		BookingID:          booking.ID,
		Reference:          booking.Reference,
		Status:             string(booking.Status),
		ShopID:             booking.ShopID,
		StylistID:          booking.StylistID,
		ServiceID:          booking.ServiceID,
		SecondaryServiceID: booking.SecondaryServiceID,
		StartTime:          booking.StartTime,
		EndTime:            booking.EndTime,
		PriceCents:         booking.PriceCents,
		DiscountCents:      booking.DiscountCents,
		PromoID:            booking.PromoID,
		AlreadyConfirmed:   alreadyConfirmed,
	}, nil
}

// checkSlotStillFree проверяет под блокировкой, что слот холда не перехвачен
// другой занимающей бронью. Конфликт различим от истечения TTL: ErrSlotConflict
// означает гонку за слот, а не опоздание клиента
func (uc *UseCase) checkSlotStillFree(ctx context.Context, booking *domain.Booking, now time.Time) error {
	overlaps, err := uc.bookingRepo.FindOccupyingOverlaps(ctx,
		booking.ShopID, booking.StylistID, booking.StartTime, booking.EndTime, now)
	if err != nil {
		uc.logger.Error("ConfirmBooking: failed to check overlaps for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to check overlaps: %w", ErrInternal, err)
	}

	for _, other := range overlaps {
		if other.ID == booking.ID {
			continue
		}
		uc.logger.Warn("ConfirmBooking: slot of booking id=%d is taken by booking id=%d", booking.ID, other.ID)
		return ErrSlotConflict
	}

	return nil
}

// notifyConfirmed отправляет событие подтверждения
// Доставка best-effort: ошибка логируется и никогда не откатывает подтверждение
func (uc *UseCase) notifyConfirmed(ctx context.Context, booking *domain.Booking) {
	event := &notifyservice.BookingConfirmedEvent{
		BookingID:      booking.ID,
		Reference:      booking.Reference,
		ShopID:         booking.ShopID,
		StylistID:      booking.StylistID,
		ServiceID:      booking.ServiceID,
		CustomerUserID: booking.CustomerUserID,
		StartTime:      booking.StartTime,
		EndTime:        booking.EndTime,
	}

	if err := uc.notifyClient.SendBookingConfirmed(ctx, event); err != nil {
		uc.logger.Warn("ConfirmBooking: failed to notify about booking id=%d: %v", booking.ID, err)
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.CustomerUserID <= 0 {
		return fmt.Errorf("%w: customerUserID must be positive", ErrInvalidInput)
	}

	return nil
}
