package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Shop represents a tenant: a salon with its own timezone and working hours
// Конфигурация салона для движка бронирования read-only:
// создаётся при онбординге, здесь никогда не изменяется
type Shop struct {
	ID          int64
	Name        string
	Timezone    string // IANA имя, например "Europe/Moscow"
	WorkingDays []int  // дни недели 0 (воскресенье) .. 6 (суббота)
	OpenTime    types.TimeString
	CloseTime   types.TimeString
	ManagerIDs  []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location returns the shop's timezone location
func (s *Shop) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// IsOpenOn returns true if the shop works on the given weekday
func (s *Shop) IsOpenOn(weekday time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// IsManager returns true if the user manages the shop
func (s *Shop) IsManager(userID int64) bool {
	for _, id := range s.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Stylist represents a staff member who can be booked
// Рабочие часы мастера, если заданы, пересекаются с часами салона;
// иначе мастер наследует часы салона целиком
type Stylist struct {
	ID          int64
	ShopID      int64
	Name        string
	Active      bool
	WorkingDays []int             // nil - наследует дни салона
	OpenTime    *types.TimeString // nil - наследует время открытия салона
	CloseTime   *types.TimeString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasHoursOverride returns true if the stylist has individual working hours
func (st *Stylist) HasHoursOverride() bool {
	return st.OpenTime != nil && st.CloseTime != nil
}

// WorksOn returns true if the stylist works on the given weekday
// При отсутствии собственного графика решает график салона
func (st *Stylist) WorksOn(weekday time.Weekday, shop *Shop) bool {
	if st.WorkingDays == nil {
		return shop.IsOpenOn(weekday)
	}
	for _, d := range st.WorkingDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}
