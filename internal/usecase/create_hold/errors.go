package create_hold

import "errors"

var (
	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("create_hold: shop not found")

	// ErrStylistNotFound возвращается, когда мастер не найден в салоне
	ErrStylistNotFound = errors.New("create_hold: stylist not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_hold: service not found")

	// ErrServiceInactive возвращается, когда услуга выключена в каталоге
	ErrServiceInactive = errors.New("create_hold: service is inactive")

	// ErrComboNotAllowed возвращается, когда пара услуг не допускает комбо-бронь
	ErrComboNotAllowed = errors.New("create_hold: services are not combo-eligible")

	// ErrSlotConflict возвращается, когда интервал уже занят другой бронью
	ErrSlotConflict = errors.New("create_hold: slot is already taken")

	// ErrOutsideWorkingHours возвращается, когда интервал не попадает в рабочие часы
	ErrOutsideWorkingHours = errors.New("create_hold: slot is outside working hours")

	// ErrStartTimeInPast возвращается, когда запрошенное время уже прошло
	ErrStartTimeInPast = errors.New("create_hold: start time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)
