package domain

import "time"

// TimeSlot represents a candidate slot eligible to be held
// Эфемерная модель: в БД не хранится, живёт только между
// генерацией слотов и созданием холда
type TimeSlot struct {
	StylistID int64
	StartTime time.Time // UTC
	EndTime   time.Time // UTC
}

// Duration returns the slot length
func (s *TimeSlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// OpenInterval открытый интервал рабочего времени мастера в UTC
type OpenInterval struct {
	Start time.Time
	End   time.Time
}

// Contains returns true if [start, end) fits inside the interval
func (i OpenInterval) Contains(start, end time.Time) bool {
	return !start.Before(i.Start) && !end.After(i.End)
}
