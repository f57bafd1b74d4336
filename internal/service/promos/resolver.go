package promos

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	promoRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/promo"
)

// Trigger точка вызова резолвера; влияет только на логирование
type Trigger string

const (
	TriggerServiceSelected Trigger = "service_selected"
	TriggerHoldCreate      Trigger = "hold_create"
	TriggerHoldRevalidate  Trigger = "hold_revalidate"
)

// Request параметры подбора промо
type Request struct {
	ShopID             int64
	ServiceID          int64
	SecondaryServiceID *int64 // заполнено для комбо-брони
	BasePriceCents     int64  // суммарная базовая цена услуг(и)
	CustomerUserID     *int64 // nil - клиент ещё не идентифицирован
	ExplicitPromoID    *int64 // промо, выбранное клиентом явно
	Trigger            Trigger
}

// Resolution результат подбора: лучшая обычная акция, комбо-компонент и суммарная скидка
// Скидка всегда в границах [0, BasePriceCents]
type Resolution struct {
	Promo              *domain.Promo // лучшая обычная акция (nil - нет)
	BundlePromo        *domain.Promo // комбо-акция (nil - нет или бронь не комбо)
	BundleRuleDiscount int64         // скидка комбо-правила каталога
	DiscountCents      int64
}

// PromoID возвращает id применённой обычной акции для снапшота в бронь
func (r *Resolution) PromoID() *int64 {
	if r.Promo == nil {
		return nil
	}
	return &r.Promo.ID
}

// Resolver подбирает лучшую применимую акцию и считает скидку
//
// Ошибки подбора мягкие: недоступность репозитория, неизвестное промо или
// нарушенные ограничения деградируют до "без скидки" и никогда не блокируют
// создание холда. Ошибка возвращается только на некорректный вход
type Resolver struct {
	promoRepo    PromoRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewResolver создает новый резолвер промо-акций
func NewResolver(promoRepo PromoRepository, catalogRepo CatalogRepository, logger Logger) *Resolver {
	return &Resolver{
		promoRepo:    promoRepo,
		catalogRepo:  catalogRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Resolve подбирает акции для запроса
//
// Обычные акции между собой не складываются - выигрывает одна лучшая
// (по приоритету, затем по размеру скидки, затем по меньшему id).
// Комбо-компонент (правило каталога или bundle-акция) оценивается отдельно
// и складывается с обычной акцией
func (r *Resolver) Resolve(ctx context.Context, req *Request) (*Resolution, error) {
	if req.ShopID <= 0 || req.ServiceID <= 0 || req.BasePriceCents < 0 {
		return nil, ErrInvalidInput
	}

	now := r.timeProvider.Now()
	result := &Resolution{}

	// 1. Обычная акция: явно выбранная или лучшая из активных
	if req.ExplicitPromoID != nil {
		result.Promo = r.resolveExplicit(ctx, req, now)
	} else {
		result.Promo = r.pickBest(ctx, req, now)
	}

	// 2. Комбо-компонент, только для комбо-брони
	if req.SecondaryServiceID != nil {
		result.BundleRuleDiscount, result.BundlePromo = r.resolveBundle(ctx, req, now)
	}

	// 3. Суммарная скидка с ограничением [0, base]
	var discount int64
	if result.Promo != nil {
		discount += discountFor(result.Promo, req.BasePriceCents)
	}
	bundleDiscount := result.BundleRuleDiscount
	if result.BundlePromo != nil && result.BundlePromo.Value > bundleDiscount {
		bundleDiscount = result.BundlePromo.Value
	}
	discount += bundleDiscount

	result.DiscountCents = clampDiscount(discount, req.BasePriceCents)

	r.logger.Info("Resolve: shop=%d service=%d trigger=%s discount=%d",
		req.ShopID, req.ServiceID, req.Trigger, result.DiscountCents)

	return result, nil
}

// resolveExplicit проверяет явно выбранное промо
// Неприменимое или несуществующее промо не заменяется автоматическим подбором:
// клиент просил конкретную акцию, тихая подмена хуже отсутствия скидки
func (r *Resolver) resolveExplicit(ctx context.Context, req *Request, now time.Time) *domain.Promo {
	p, err := r.promoRepo.GetByID(ctx, req.ShopID, *req.ExplicitPromoID)
	if err != nil {
		if errors.Is(err, promoRepo.ErrPromoNotFound) {
			r.logger.Warn("Resolve: explicit promo id=%d not found for shop=%d", *req.ExplicitPromoID, req.ShopID)
		} else {
			r.logger.Error("Resolve: failed to get explicit promo id=%d: %v", *req.ExplicitPromoID, err)
		}
		return nil
	}

	if p.IsBundle() {
		r.logger.Warn("Resolve: explicit promo id=%d is a bundle promo, ignored as ordinary", p.ID)
		return nil
	}

	if !r.eligible(ctx, p, req, now) {
		r.logger.Info("Resolve: explicit promo id=%d not eligible, no discount applied", p.ID)
		return nil
	}

	return p
}

// pickBest выбирает лучшую обычную акцию из активных
func (r *Resolver) pickBest(ctx context.Context, req *Request, now time.Time) *domain.Promo {
	active, err := r.promoRepo.ListActive(ctx, req.ShopID, now)
	if err != nil {
		r.logger.Error("Resolve: failed to list active promos for shop=%d: %v", req.ShopID, err)
		return nil
	}

	var best *domain.Promo
	var bestDiscount int64

	for _, p := range active {
		if p.IsBundle() {
			continue
		}
		if !r.eligible(ctx, p, req, now) {
			continue
		}

		d := discountFor(p, req.BasePriceCents)

		// Репозиторий отдаёт promos в порядке priority DESC, id ASC,
		// поэтому при равном приоритете и равной скидке первый
		// кандидат (меньший id) остаётся победителем
		switch {
		case best == nil:
			best, bestDiscount = p, d
		case p.Priority > best.Priority:
			best, bestDiscount = p, d
		case p.Priority == best.Priority && d > bestDiscount:
			best, bestDiscount = p, d
		}
	}

	return best
}

// resolveBundle возвращает скидку комбо-правила и лучшую bundle-акцию для пары услуг
func (r *Resolver) resolveBundle(ctx context.Context, req *Request, now time.Time) (int64, *domain.Promo) {
	var ruleDiscount int64

	rule, err := r.catalogRepo.GetComboRule(ctx, req.ShopID, req.ServiceID, *req.SecondaryServiceID)
	if err != nil {
		if !errors.Is(err, catalogRepo.ErrComboRuleNotFound) {
			r.logger.Error("Resolve: failed to get combo rule for shop=%d: %v", req.ShopID, err)
		}
	} else {
		ruleDiscount = rule.DiscountCents
	}

	active, err := r.promoRepo.ListActive(ctx, req.ShopID, now)
	if err != nil {
		r.logger.Error("Resolve: failed to list active promos for shop=%d: %v", req.ShopID, err)
		return ruleDiscount, nil
	}

	var best *domain.Promo
	for _, p := range active {
		if !p.IsBundle() {
			continue
		}
		if !p.AppliesToService(req.ServiceID) || !p.AppliesToService(*req.SecondaryServiceID) {
			continue
		}
		if req.BasePriceCents < p.MinSpendCents {
			continue
		}
		if !r.withinCustomerLimit(ctx, p, req) {
			continue
		}
		if best == nil || p.Priority > best.Priority ||
			(p.Priority == best.Priority && p.Value > best.Value) {
			best = p
		}
	}

	return ruleDiscount, best
}

// eligible проверяет ограничения обычной акции
func (r *Resolver) eligible(ctx context.Context, p *domain.Promo, req *Request, now time.Time) bool {
	if !p.IsActiveAt(now) {
		return false
	}
	if req.BasePriceCents < p.MinSpendCents {
		return false
	}

	// Для комбо обычная акция применима, если покрывает хотя бы одну из услуг
	applies := p.AppliesToService(req.ServiceID)
	if !applies && req.SecondaryServiceID != nil {
		applies = p.AppliesToService(*req.SecondaryServiceID)
	}
	if !applies {
		return false
	}

	return r.withinCustomerLimit(ctx, p, req)
}

// withinCustomerLimit проверяет ограничение "одна акция на клиента в период"
// Без идентификации клиента проверить лимит нельзя - акция с лимитом пропускается
func (r *Resolver) withinCustomerLimit(ctx context.Context, p *domain.Promo, req *Request) bool {
	if p.PerCustomerLimit == nil {
		return true
	}
	if req.CustomerUserID == nil {
		return false
	}

	used, err := r.promoRepo.CountCustomerUsage(ctx, p.ID, *req.CustomerUserID)
	if err != nil {
		r.logger.Error("Resolve: failed to count usage of promo id=%d: %v", p.ID, err)
		return false
	}

	return used < *p.PerCustomerLimit
}

// discountFor считает скидку акции в минорных единицах
// Процентная скидка округляется до ближайшей минорной единицы
func discountFor(p *domain.Promo, basePriceCents int64) int64 {
	switch p.Type {
	case domain.PromoPercent:
		return (basePriceCents*p.Value + 50) / 100
	case domain.PromoFixed, domain.PromoFreeAddon:
		return p.Value
	default:
		return 0
	}
}

// clampDiscount ограничивает скидку диапазоном [0, base]
func clampDiscount(discount, basePriceCents int64) int64 {
	if discount < 0 {
		return 0
	}
	if discount > basePriceCents {
		return basePriceCents
	}
	return discount
}
