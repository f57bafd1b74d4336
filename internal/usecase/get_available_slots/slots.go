package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// subtractBookings вычитает занятые интервалы броней из открытых интервалов мастера
// Возвращает свободные под-интервалы в порядке возрастания.
// Брони должны принадлежать одному мастеру; занятость уже отфильтрована
// предикатом на чтении (истёкшие холды сюда не попадают)
func subtractBookings(intervals []domain.OpenInterval, bookings []*domain.Booking) []domain.OpenInterval {
	free := make([]domain.OpenInterval, 0, len(intervals))

	for _, interval := range intervals {
		cursor := interval.Start

		for _, b := range bookings {
			if !b.Overlaps(cursor, interval.End) {
				continue
			}

			if b.StartTime.After(cursor) {
				free = append(free, domain.OpenInterval{Start: cursor, End: b.StartTime})
			}
			if b.EndTime.After(cursor) {
				cursor = b.EndTime
			}
		}

		if cursor.Before(interval.End) {
			free = append(free, domain.OpenInterval{Start: cursor, End: interval.End})
		}
	}

	return free
}

// enumerateSlots перечисляет стартовые времена внутри свободных интервалов
// с шагом, равным суммарной длительности брони: start + duration <= конец интервала.
// Слоты, начинающиеся раньше notBefore, отбрасываются
func enumerateSlots(stylistID int64, free []domain.OpenInterval, duration time.Duration, notBefore time.Time) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)

	for _, interval := range free {
		for start := interval.Start; !start.Add(duration).After(interval.End); start = start.Add(duration) {
			if start.Before(notBefore) {
				continue
			}
			slots = append(slots, domain.TimeSlot{
				StylistID: stylistID,
				StartTime: start,
				EndTime:   start.Add(duration),
			})
		}
	}

	return slots
}

// sortSlots упорядочивает слоты по (start_time, stylist_id)
// Повторный вызов с неизменённым хранилищем даёт идентичный список
func sortSlots(slots []domain.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].StylistID < slots[j].StylistID
	})
}

// bookingsByStylist группирует брони по мастеру, сохраняя порядок по start_time
func bookingsByStylist(bookings []*domain.Booking) map[int64][]*domain.Booking {
	grouped := make(map[int64][]*domain.Booking)
	for _, b := range bookings {
		grouped[b.StylistID] = append(grouped[b.StylistID], b)
	}
	return grouped
}

// callerToday возвращает календарную дату "сегодня" в часовом поясе клиента
func callerToday(now time.Time, utcOffsetMinutes int) time.Time {
	local := now.In(time.FixedZone("caller", utcOffsetMinutes*60))
	year, month, day := local.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// isDateBefore сравнивает только календарные даты
func isDateBefore(date, other time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := other.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}
