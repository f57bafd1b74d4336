package create_hold

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/promos"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Понедельник, салон в UTC работает 09:00-17:00
var (
	testNow   = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	testStart = time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeCatalog struct {
	shop     *domain.Shop
	stylists map[int64]*domain.Stylist
	services map[int64]*domain.Service
}

func (f *fakeCatalog) GetShop(_ context.Context, shopID int64) (*domain.Shop, error) {
	if f.shop == nil || f.shop.ID != shopID {
		return nil, catalogRepo.ErrShopNotFound
	}
	return f.shop, nil
}

func (f *fakeCatalog) GetStylist(_ context.Context, shopID, stylistID int64) (*domain.Stylist, error) {
	st, ok := f.stylists[stylistID]
	if !ok || st.ShopID != shopID {
		return nil, catalogRepo.ErrStylistNotFound
	}
	return st, nil
}

func (f *fakeCatalog) GetService(_ context.Context, shopID, serviceID int64) (*domain.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok || svc.ShopID != shopID {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return svc, nil
}

type fakeBookingRepo struct {
	overlaps  []*domain.Booking
	created   []*domain.Booking
	createErr error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *booking
	stored.ID = int64(len(f.created) + 1)
	f.created = append(f.created, &stored)
	return &stored, nil
}

func (f *fakeBookingRepo) FindOccupyingOverlaps(_ context.Context, _, stylistID int64, start, end, now time.Time) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.overlaps {
		if b.StylistID == stylistID && b.OccupiesSlot(now) && b.Overlaps(start, end) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakePromoResolver struct {
	resolution *promos.Resolution
	err        error
	lastReq    *promos.Request
}

func (f *fakePromoResolver) Resolve(_ context.Context, req *promos.Request) (*promos.Resolution, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.resolution == nil {
		return &promos.Resolution{}, nil
	}
	return f.resolution, nil
}

// fakeTxManager выполняет функцию без транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	holdsCreated  int
	slotConflicts int
}

func (f *fakeMetrics) IncHoldCreated()  { f.holdsCreated++ }
func (f *fakeMetrics) IncSlotConflict() { f.slotConflicts++ }

type testEnv struct {
	uc       *UseCase
	repo     *fakeBookingRepo
	catalog  *fakeCatalog
	resolver *fakePromoResolver
	metrics  *fakeMetrics
}

func newTestEnv() *testEnv {
	catalog := &fakeCatalog{
		shop: &domain.Shop{
			ID:          1,
			Name:        "Салон",
			Timezone:    "UTC",
			WorkingDays: []int{1, 2, 3, 4, 5},
			OpenTime:    types.TimeString("09:00"),
			CloseTime:   types.TimeString("17:00"),
		},
		stylists: map[int64]*domain.Stylist{
			10: {ID: 10, ShopID: 1, Name: "Анна", Active: true},
		},
		services: map[int64]*domain.Service{
			100: {ID: 100, ShopID: 1, Name: "Стрижка", DurationMinutes: 30, PriceCents: 3000, ComboEligible: true, Active: true},
			200: {ID: 200, ShopID: 1, Name: "Окрашивание", DurationMinutes: 45, PriceCents: 7000, ComboEligible: true, Active: true},
			300: {ID: 300, ShopID: 1, Name: "Укладка", DurationMinutes: 30, PriceCents: 2000, ComboEligible: false, Active: true},
		},
	}

	env := &testEnv{
		repo:     &fakeBookingRepo{},
		catalog:  catalog,
		resolver: &fakePromoResolver{},
		metrics:  &fakeMetrics{},
	}

	env.uc = NewUseCase(env.repo, catalog, env.resolver, fakeTxManager{}, env.metrics, 0, nopLogger{})
	env.uc.timeProvider = fixedTime{testNow}
	return env
}

func validRequest() *Request {
	return &Request{
		ShopID:         1,
		StylistID:      10,
		ServiceID:      100,
		StartTime:      testStart,
		CustomerUserID: 7,
		CustomerName:   "Мария",
	}
}

func TestExecute_CreatesHold(t *testing.T) {
	env := newTestEnv()
	env.resolver.resolution = &promos.Resolution{
		Promo:         &domain.Promo{ID: 3},
		DiscountCents: 300,
	}

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusHold), resp.Status)
	assert.NotEqual(t, uuid.Nil, resp.Reference)
	assert.Equal(t, testStart, resp.StartTime)
	assert.Equal(t, testStart.Add(30*time.Minute), resp.EndTime)
	assert.Equal(t, testNow.Add(domain.DefaultHoldTTL), resp.HoldExpiresAt)

	// Снапшот цены и скидки на момент создания
	assert.Equal(t, int64(3000), resp.PriceCents)
	assert.Equal(t, int64(300), resp.DiscountCents)
	require.NotNil(t, resp.PromoID)
	assert.Equal(t, int64(3), *resp.PromoID)

	require.Len(t, env.repo.created, 1)
	assert.Equal(t, 1, env.metrics.holdsCreated)
	assert.Equal(t, 0, env.metrics.slotConflicts)
}

func TestExecute_CustomHoldTTL(t *testing.T) {
	env := newTestEnv()
	env.uc = NewUseCase(env.repo, env.catalog, env.resolver, fakeTxManager{}, env.metrics, 10*time.Minute, nopLogger{})
	env.uc.timeProvider = fixedTime{testNow}

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(10*time.Minute), resp.HoldExpiresAt)
}

func TestExecute_ComboSnapshotsBothServices(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	req.SecondaryServiceID = ptr.Ptr(int64(200))

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Комбо занимает один непрерывный интервал 30+45 минут
	assert.Equal(t, testStart.Add(75*time.Minute), resp.EndTime)
	assert.Equal(t, int64(10000), resp.PriceCents)

	// Резолвер промо получает суммарную базовую цену
	require.NotNil(t, env.resolver.lastReq)
	assert.Equal(t, int64(10000), env.resolver.lastReq.BasePriceCents)
}

func TestExecute_ComboNotEligible(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	req.SecondaryServiceID = ptr.Ptr(int64(300))

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrComboNotAllowed)
	assert.Empty(t, env.repo.created)
}

func TestExecute_SlotConflict(t *testing.T) {
	env := newTestEnv()
	env.repo.overlaps = []*domain.Booking{
		{
			StylistID: 10,
			StartTime: testStart.Add(15 * time.Minute),
			EndTime:   testStart.Add(45 * time.Minute),
			Status:    domain.StatusConfirmed,
		},
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, env.repo.created)
	assert.Equal(t, 1, env.metrics.slotConflicts)
	assert.Equal(t, 0, env.metrics.holdsCreated)
}

func TestExecute_ExpiredHoldDoesNotConflict(t *testing.T) {
	env := newTestEnv()
	env.repo.overlaps = []*domain.Booking{
		{
			StylistID:     10,
			StartTime:     testStart,
			EndTime:       testStart.Add(30 * time.Minute),
			Status:        domain.StatusHold,
			HoldExpiresAt: ptr.Ptr(testNow.Add(-time.Second)),
		},
	}

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusHold), resp.Status)
}

func TestExecute_AdjacentBookingDoesNotConflict(t *testing.T) {
	env := newTestEnv()
	env.repo.overlaps = []*domain.Booking{
		{
			StylistID: 10,
			StartTime: testStart.Add(-30 * time.Minute),
			EndTime:   testStart,
			Status:    domain.StatusConfirmed,
		},
		{
			StylistID: 10,
			StartTime: testStart.Add(30 * time.Minute),
			EndTime:   testStart.Add(60 * time.Minute),
			Status:    domain.StatusConfirmed,
		},
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	// 16:45 + 30 минут выходит за закрытие в 17:00
	req.StartTime = time.Date(2026, 9, 14, 16, 45, 0, 0, time.UTC)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_StartTimeInPast(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	req.StartTime = testNow.Add(-time.Minute)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStartTimeInPast)
}

func TestExecute_ResolverFailureDegradesToNoDiscount(t *testing.T) {
	env := newTestEnv()
	env.resolver.err = errors.New("promo storage down")

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(3000), resp.PriceCents)
	assert.Equal(t, int64(0), resp.DiscountCents)
	assert.Nil(t, resp.PromoID)
}

func TestExecute_InactiveStylist(t *testing.T) {
	env := newTestEnv()
	env.catalog.stylists[10].Active = false

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStylistNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero shop", func(req *Request) { req.ShopID = 0 }},
		{"zero customer", func(req *Request) { req.CustomerUserID = 0 }},
		{"empty name", func(req *Request) { req.CustomerName = "  " }},
		{"same combo services", func(req *Request) { req.SecondaryServiceID = ptr.Ptr(int64(100)) }},
		{"zero start", func(req *Request) { req.StartTime = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
