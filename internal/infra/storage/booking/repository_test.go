package booking

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
)

// testCatalog идентификаторы каталога, засеянные перед каждым тестом
type testCatalog struct {
	shopID    int64
	stylistID int64
	serviceID int64
}

func newTestRepo(t *testing.T) (*Repository, *testCatalog, *sql.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, db)
	testutil.TruncateAll(t, ctx, db)

	shopID, stylistID := testutil.InsertShopWithStylist(t, ctx, db)
	serviceID := testutil.InsertService(t, ctx, db, shopID, 30, 3000)

	return NewRepository(db), &testCatalog{shopID: shopID, stylistID: stylistID, serviceID: serviceID}, db
}

func newBooking(c *testCatalog, start time.Time, status domain.BookingStatus, holdExpiresAt *time.Time) *domain.Booking {
	return &domain.Booking{
		Reference:      uuid.New(),
		ShopID:         c.shopID,
		ServiceID:      c.serviceID,
		StylistID:      c.stylistID,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         status,
		HoldExpiresAt:  holdExpiresAt,
		CustomerUserID: 7,
		CustomerName:   "Мария",
		PriceCents:     3000,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, catalog, _ := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	start := now.Add(24 * time.Hour)

	created, err := repo.Create(ctx, newBooking(catalog, start, domain.StatusHold, ptr.Ptr(now.Add(5*time.Minute))))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Reference, got.Reference)
	assert.Equal(t, domain.StatusHold, got.Status)
	assert.True(t, got.StartTime.Equal(start))
	assert.Equal(t, int64(3000), got.PriceCents)
	assert.Equal(t, "Мария", got.CustomerName)

	byRef, err := repo.GetByReference(ctx, created.Reference)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byRef.ID)

	_, err = repo.GetByID(ctx, created.ID+1000)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_FindOccupyingOverlaps(t *testing.T) {
	repo, catalog, db := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	start := now.Add(24 * time.Hour)

	confirmedID := testutil.InsertBooking(t, ctx, db, *newBooking(catalog, start, domain.StatusConfirmed, nil))
	liveHoldID := testutil.InsertBooking(t, ctx, db,
		*newBooking(catalog, start.Add(30*time.Minute), domain.StatusHold, ptr.Ptr(now.Add(5*time.Minute))))
	testutil.InsertBooking(t, ctx, db,
		*newBooking(catalog, start, domain.StatusHold, ptr.Ptr(now.Add(-time.Minute))))
	testutil.InsertBooking(t, ctx, db, *newBooking(catalog, start, domain.StatusCancelled, nil))

	// Смежная бронь за границей окна не считается пересечением
	testutil.InsertBooking(t, ctx, db, *newBooking(catalog, start.Add(time.Hour), domain.StatusConfirmed, nil))

	occupying, err := repo.FindOccupyingOverlaps(ctx, catalog.shopID, catalog.stylistID, start, start.Add(time.Hour), now)
	require.NoError(t, err)
	require.Len(t, occupying, 2)
	assert.Equal(t, confirmedID, occupying[0].ID)
	assert.Equal(t, liveHoldID, occupying[1].ID)
}

func TestRepository_ConfirmOnlyLiveHold(t *testing.T) {
	repo, catalog, db := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	start := now.Add(24 * time.Hour)

	liveID := testutil.InsertBooking(t, ctx, db,
		*newBooking(catalog, start, domain.StatusHold, ptr.Ptr(now.Add(5*time.Minute))))
	expiredID := testutil.InsertBooking(t, ctx, db,
		*newBooking(catalog, start.Add(time.Hour), domain.StatusHold, ptr.Ptr(now.Add(-time.Minute))))

	require.NoError(t, repo.Confirm(ctx, liveID, now))

	got, err := repo.GetByID(ctx, liveID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Nil(t, got.HoldExpiresAt)

	// Истёкший холд условное обновление не трогает
	err = repo.Confirm(ctx, expiredID, now)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	got, err = repo.GetByID(ctx, expiredID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHold, got.Status)
}

func TestRepository_ExpireStale(t *testing.T) {
	repo, catalog, db := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	start := now.Add(24 * time.Hour)

	staleA := testutil.InsertBooking(t, ctx, db,
		*newBooking(catalog, start, domain.StatusHold, ptr.Ptr(now.Add(-time.Minute))))
	staleB := testutil.InsertBooking(t, ctx, db,
		*newBooking(catalog, start.Add(time.Hour), domain.StatusHold, ptr.Ptr(now)))
	liveID := testutil.InsertBooking(t, ctx, db,
		*newBooking(catalog, start.Add(2*time.Hour), domain.StatusHold, ptr.Ptr(now.Add(5*time.Minute))))

	swept, err := repo.ExpireStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)

	for _, id := range []int64{staleA, staleB} {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusExpired, got.Status)
	}

	got, err := repo.GetByID(ctx, liveID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHold, got.Status)
}

// errSlotTaken возвращается из транзакции, когда проверка пересечений
// нашла занимающую бронь
var errSlotTaken = errors.New("slot taken")

func TestRepository_ConcurrentHoldsOneWinner(t *testing.T) {
	repo, catalog, db := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	start := now.Add(24 * time.Hour)
	end := start.Add(30 * time.Minute)

	txm := simpletxmanager.NewTransactionManager(db)

	const workers = 4

	var wg sync.WaitGroup
	startCh := make(chan struct{})
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-startCh

			b := newBooking(catalog, start, domain.StatusHold, ptr.Ptr(now.Add(5*time.Minute)))
			errs[i] = txm.DoSerializable(ctx, func(txCtx context.Context) error {
				occupying, err := repo.FindOccupyingOverlaps(txCtx, catalog.shopID, catalog.stylistID, start, end, now)
				if err != nil {
					return err
				}
				if len(occupying) > 0 {
					return errSlotTaken
				}
				_, err = repo.Create(txCtx, b)
				return err
			})
		}(i)
	}

	close(startCh)
	wg.Wait()

	// Из конкурентов за один слот ровно один получает холд
	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, errSlotTaken)
	}
	assert.Equal(t, 1, winners)

	occupying, err := repo.FindOccupyingOverlaps(ctx, catalog.shopID, catalog.stylistID, start, end, now)
	require.NoError(t, err)
	assert.Len(t, occupying, 1)
}
