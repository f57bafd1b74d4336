package domain

import "time"

// PromoType represents the discount mechanics of a promo
type PromoType string

const (
	// PromoPercent скидка в процентах от базовой цены (Value = проценты)
	PromoPercent PromoType = "percent"
	// PromoFixed фиксированная скидка в минорных единицах (Value = центы)
	PromoFixed PromoType = "fixed"
	// PromoFreeAddon бесплатная дополнительная услуга (Value = цена аддона в центах)
	PromoFreeAddon PromoType = "free_addon"
	// PromoBundle пакетная скидка за комбо-бронь; оценивается отдельно от обычных промо
	// и может сочетаться с ними
	PromoBundle PromoType = "bundle"
)

// Promo represents a discount rule applied at hold time and honored at confirm time
type Promo struct {
	ID               int64
	ShopID           int64
	Name             string
	Type             PromoType
	Value            int64
	StartsAt         time.Time
	EndsAt           time.Time
	MinSpendCents    int64
	ServiceIDs       []int64 // пустой список - применимо к любой услуге
	Priority         int     // больше - приоритетнее
	Active           bool
	PerCustomerLimit *int // nil - без ограничения на клиента
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActiveAt returns true if the promo window covers the given instant
func (p *Promo) IsActiveAt(now time.Time) bool {
	return p.Active && !now.Before(p.StartsAt) && now.Before(p.EndsAt)
}

// AppliesToService returns true if the promo is valid for the given service
func (p *Promo) AppliesToService(serviceID int64) bool {
	if len(p.ServiceIDs) == 0 {
		return true
	}
	for _, id := range p.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// IsBundle returns true for combo-only promos
func (p *Promo) IsBundle() bool {
	return p.Type == PromoBundle
}
