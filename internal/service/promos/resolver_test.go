package promos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	promoRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/promo"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var testNow = time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakePromoRepo struct {
	// active хранится в порядке priority DESC, id ASC, как отдаёт репозиторий
	active []*domain.Promo
	usage  map[int64]int // promoID -> использований текущим клиентом
}

func (f *fakePromoRepo) GetByID(_ context.Context, shopID, promoID int64) (*domain.Promo, error) {
	for _, p := range f.active {
		if p.ID == promoID && p.ShopID == shopID {
			return p, nil
		}
	}
	return nil, promoRepo.ErrPromoNotFound
}

func (f *fakePromoRepo) ListActive(_ context.Context, shopID int64, _ time.Time) ([]*domain.Promo, error) {
	result := make([]*domain.Promo, 0, len(f.active))
	for _, p := range f.active {
		if p.ShopID == shopID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePromoRepo) CountCustomerUsage(_ context.Context, promoID, _ int64) (int, error) {
	return f.usage[promoID], nil
}

type fakeComboCatalog struct {
	rule *domain.ComboRule
}

func (f *fakeComboCatalog) GetComboRule(_ context.Context, shopID, serviceAID, serviceBID int64) (*domain.ComboRule, error) {
	if f.rule != nil && f.rule.ShopID == shopID && f.rule.Matches(serviceAID, serviceBID) {
		return f.rule, nil
	}
	return nil, catalogRepo.ErrComboRuleNotFound
}

func newTestResolver(repo *fakePromoRepo, catalog *fakeComboCatalog) *Resolver {
	r := NewResolver(repo, catalog, nopLogger{})
	r.timeProvider = fixedTime{testNow}
	return r
}

func percentPromo(id int64, value int64, priority int) *domain.Promo {
	return &domain.Promo{
		ID:       id,
		ShopID:   1,
		Name:     "Скидка",
		Type:     domain.PromoPercent,
		Value:    value,
		StartsAt: testNow.Add(-time.Hour),
		EndsAt:   testNow.Add(time.Hour),
		Priority: priority,
		Active:   true,
	}
}

func TestResolver_PercentRounding(t *testing.T) {
	repo := &fakePromoRepo{active: []*domain.Promo{percentPromo(1, 5, 0)}}
	r := newTestResolver(repo, &fakeComboCatalog{})

	// 5% от 1050 = 52.5, округляется до 53
	res, err := r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 1050,
		Trigger:        TriggerHoldCreate,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Promo)
	assert.Equal(t, int64(53), res.DiscountCents)
}

func TestResolver_HigherPriorityWinsOverBiggerDiscount(t *testing.T) {
	low := percentPromo(1, 50, 1)
	high := percentPromo(2, 10, 5)

	repo := &fakePromoRepo{active: []*domain.Promo{high, low}}
	r := newTestResolver(repo, &fakeComboCatalog{})

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 10000,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Promo)
	assert.Equal(t, int64(2), res.Promo.ID)
	assert.Equal(t, int64(1000), res.DiscountCents)
}

func TestResolver_EqualPriorityBiggerDiscountWins(t *testing.T) {
	small := percentPromo(1, 10, 3)
	big := percentPromo(2, 20, 3)

	repo := &fakePromoRepo{active: []*domain.Promo{small, big}}
	r := newTestResolver(repo, &fakeComboCatalog{})

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 10000,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Promo)
	assert.Equal(t, int64(2), res.Promo.ID)
}

func TestResolver_FullTieLowestIDWins(t *testing.T) {
	first := percentPromo(1, 10, 3)
	second := percentPromo(2, 10, 3)

	repo := &fakePromoRepo{active: []*domain.Promo{first, second}}
	r := newTestResolver(repo, &fakeComboCatalog{})

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 10000,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Promo)
	assert.Equal(t, int64(1), res.Promo.ID)
}

func TestResolver_DiscountClampedToBase(t *testing.T) {
	fixed := &domain.Promo{
		ID:       1,
		ShopID:   1,
		Type:     domain.PromoFixed,
		Value:    5000,
		StartsAt: testNow.Add(-time.Hour),
		EndsAt:   testNow.Add(time.Hour),
		Active:   true,
	}

	repo := &fakePromoRepo{active: []*domain.Promo{fixed}}
	r := newTestResolver(repo, &fakeComboCatalog{})

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 3000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), res.DiscountCents)
}

func TestResolver_ExplicitPromoIneligibleNoFallback(t *testing.T) {
	chosen := percentPromo(1, 10, 0)
	chosen.MinSpendCents = 100000 // порог не достигнут
	other := percentPromo(2, 20, 0)

	repo := &fakePromoRepo{active: []*domain.Promo{chosen, other}}
	r := newTestResolver(repo, &fakeComboCatalog{})

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:          1,
		ServiceID:       100,
		BasePriceCents:  5000,
		ExplicitPromoID: ptr.Ptr(int64(1)),
	})
	require.NoError(t, err)

	// Выбранная клиентом акция не заменяется автоматической
	assert.Nil(t, res.Promo)
	assert.Equal(t, int64(0), res.DiscountCents)
}

func TestResolver_ExplicitPromoNotFound(t *testing.T) {
	repo := &fakePromoRepo{}
	r := newTestResolver(repo, &fakeComboCatalog{})

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:          1,
		ServiceID:       100,
		BasePriceCents:  5000,
		ExplicitPromoID: ptr.Ptr(int64(99)),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Promo)
	assert.Equal(t, int64(0), res.DiscountCents)
}

func TestResolver_PerCustomerLimit(t *testing.T) {
	limited := percentPromo(1, 10, 0)
	limited.PerCustomerLimit = ptr.Ptr(1)

	repo := &fakePromoRepo{
		active: []*domain.Promo{limited},
		usage:  map[int64]int{1: 1},
	}
	r := newTestResolver(repo, &fakeComboCatalog{})

	// Лимит исчерпан
	res, err := r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 5000,
		CustomerUserID: ptr.Ptr(int64(7)),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Promo)

	// Без идентификации клиента лимитированная акция тоже пропускается
	res, err = r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 5000,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Promo)
}

func TestResolver_ServiceRestriction(t *testing.T) {
	restricted := percentPromo(1, 10, 0)
	restricted.ServiceIDs = []int64{200}

	repo := &fakePromoRepo{active: []*domain.Promo{restricted}}
	r := newTestResolver(repo, &fakeComboCatalog{})

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 5000,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Promo)

	// Для комбо достаточно покрытия одной из услуг
	res, err = r.Resolve(context.Background(), &Request{
		ShopID:             1,
		ServiceID:          100,
		SecondaryServiceID: ptr.Ptr(int64(200)),
		BasePriceCents:     5000,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Promo)
	assert.Equal(t, int64(1), res.Promo.ID)
}

func TestResolver_BundleComponents(t *testing.T) {
	bundle := &domain.Promo{
		ID:       5,
		ShopID:   1,
		Type:     domain.PromoBundle,
		Value:    700,
		StartsAt: testNow.Add(-time.Hour),
		EndsAt:   testNow.Add(time.Hour),
		Active:   true,
	}
	ordinary := percentPromo(1, 10, 0)

	repo := &fakePromoRepo{active: []*domain.Promo{ordinary, bundle}}
	catalog := &fakeComboCatalog{
		rule: &domain.ComboRule{ID: 1, ShopID: 1, ServiceAID: 100, ServiceBID: 200, DiscountCents: 500},
	}
	r := newTestResolver(repo, catalog)

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:             1,
		ServiceID:          100,
		SecondaryServiceID: ptr.Ptr(int64(200)),
		BasePriceCents:     10000,
	})
	require.NoError(t, err)

	// Обычная акция складывается с лучшим комбо-компонентом:
	// 10% от 10000 + max(правило 500, bundle 700) = 1700
	require.NotNil(t, res.Promo)
	require.NotNil(t, res.BundlePromo)
	assert.Equal(t, int64(500), res.BundleRuleDiscount)
	assert.Equal(t, int64(1700), res.DiscountCents)
}

func TestResolver_BundleIgnoredForSingleService(t *testing.T) {
	bundle := &domain.Promo{
		ID:       5,
		ShopID:   1,
		Type:     domain.PromoBundle,
		Value:    700,
		StartsAt: testNow.Add(-time.Hour),
		EndsAt:   testNow.Add(time.Hour),
		Active:   true,
	}

	repo := &fakePromoRepo{active: []*domain.Promo{bundle}}
	r := newTestResolver(repo, &fakeComboCatalog{})

	res, err := r.Resolve(context.Background(), &Request{
		ShopID:         1,
		ServiceID:      100,
		BasePriceCents: 10000,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Promo)
	assert.Nil(t, res.BundlePromo)
	assert.Equal(t, int64(0), res.DiscountCents)
}

func TestResolver_InvalidInput(t *testing.T) {
	r := newTestResolver(&fakePromoRepo{}, &fakeComboCatalog{})

	_, err := r.Resolve(context.Background(), &Request{ShopID: 0, ServiceID: 100})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
