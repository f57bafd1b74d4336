package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("schedule: invalid date")

	// ErrInvalidTimezone возвращается, если таймзона салона не загружается
	ErrInvalidTimezone = errors.New("schedule: invalid shop timezone")

	// ErrInvalidWorkingHours возвращается при некорректной конфигурации рабочих часов
	ErrInvalidWorkingHours = errors.New("schedule: invalid working hours")
)

// ResolveOpenIntervals возвращает открытые интервалы мастера на локальную дату салона, в UTC
//
// Все проверки "открыт ли салон в этот день" выполняются в локальном календаре
// салона, а не в смещении клиента. Часы мастера, если заданы, пересекаются
// с часами салона; иначе мастер наследует часы салона.
// Пустой результат означает выходной, это не ошибка
func ResolveOpenIntervals(shop *domain.Shop, stylist *domain.Stylist, date time.Time) ([]domain.OpenInterval, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}

	loc, err := shop.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, shop.Timezone, err)
	}

	year, month, day := date.Date()
	localMidnight := time.Date(year, month, day, 0, 0, 0, 0, loc)
	weekday := localMidnight.Weekday()

	if !shop.IsOpenOn(weekday) {
		return []domain.OpenInterval{}, nil
	}
	if stylist != nil {
		if !stylist.Active {
			return []domain.OpenInterval{}, nil
		}
		if !stylist.WorksOn(weekday, shop) {
			return []domain.OpenInterval{}, nil
		}
	}

	open, close_ := shop.OpenTime, shop.CloseTime

	// Пересечение с индивидуальным графиком мастера
	if stylist != nil && stylist.HasHoursOverride() {
		if stylist.OpenTime.IsAfter(open) {
			open = *stylist.OpenTime
		}
		if stylist.CloseTime.IsBefore(close_) {
			close_ = *stylist.CloseTime
		}
	}

	if !open.IsBefore(close_) {
		return []domain.OpenInterval{}, nil
	}

	startUTC, err := atLocalTime(localMidnight, open, loc)
	if err != nil {
		return nil, err
	}
	endUTC, err := atLocalTime(localMidnight, close_, loc)
	if err != nil {
		return nil, err
	}

	return []domain.OpenInterval{{Start: startUTC, End: endUTC}}, nil
}

// atLocalTime строит UTC-момент из локальной полуночи и времени HH:MM в локации салона
func atLocalTime(localMidnight time.Time, t types.TimeString, loc *time.Location) (time.Time, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	}

	year, month, day := localMidnight.Date()
	local := time.Date(year, month, day, minutes/60, minutes%60, 0, 0, loc)
	return local.UTC(), nil
}

// DayBoundsUTC возвращает границы локального дня салона [start, end) в UTC
// Используется для выборки бронирований за день
func DayBoundsUTC(shop *domain.Shop, date time.Time) (time.Time, time.Time, error) {
	loc, err := shop.Location()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, shop.Timezone, err)
	}

	year, month, day := date.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC(), nil
}
