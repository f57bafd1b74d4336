package domain

import "time"

// Service represents a bookable salon service
// Цена и длительность снапшотятся в бронь при создании холда,
// последующие изменения каталога существующие брони не трогают
type Service struct {
	ID              int64
	ShopID          int64
	Name            string
	DurationMinutes int
	PriceCents      int64
	ComboEligible   bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ComboRule описывает пару услуг, допустимую в комбо-брони, и скидку за пакет
// Типизированная замена JSON-ограничений: правила резолвятся один раз при чтении каталога
type ComboRule struct {
	ID            int64
	ShopID        int64
	ServiceAID    int64
	ServiceBID    int64
	DiscountCents int64
}

// Matches returns true if the rule covers the given pair of services, in any order
func (r *ComboRule) Matches(serviceA, serviceB int64) bool {
	return (r.ServiceAID == serviceA && r.ServiceBID == serviceB) ||
		(r.ServiceAID == serviceB && r.ServiceBID == serviceA)
}
