package confirm_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("confirm_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронь принадлежит другому пользователю
	ErrAccessDenied = errors.New("confirm_booking: access denied")

	// ErrHoldExpired возвращается, когда TTL холда вышел до подтверждения
	ErrHoldExpired = errors.New("confirm_booking: hold has expired")

	// ErrBookingCancelled возвращается при попытке подтвердить отменённую бронь
	ErrBookingCancelled = errors.New("confirm_booking: booking is cancelled")

	// ErrSlotConflict возвращается, когда слот холда уже занят другой бронью
	ErrSlotConflict = errors.New("confirm_booking: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
