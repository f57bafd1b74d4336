package expire_holds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	expired int64
	err     error
	calls   []time.Time
}

func (f *fakeBookingRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	f.calls = append(f.calls, now)
	return f.expired, f.err
}

type fakeMetrics struct {
	total int64
}

func (f *fakeMetrics) IncHoldsExpired(n int64) { f.total += n }

func TestExecute_SweepsStaleHolds(t *testing.T) {
	repo := &fakeBookingRepo{expired: 3}
	metrics := &fakeMetrics{}

	uc := NewUseCase(repo, metrics, nopLogger{})
	uc.timeProvider = fixedTime{testNow}

	n, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), n)
	assert.Equal(t, int64(3), metrics.total)
	require.Len(t, repo.calls, 1)
	assert.Equal(t, testNow, repo.calls[0])
}

func TestExecute_NothingToSweep(t *testing.T) {
	repo := &fakeBookingRepo{expired: 0}
	metrics := &fakeMetrics{}

	uc := NewUseCase(repo, metrics, nopLogger{})
	uc.timeProvider = fixedTime{testNow}

	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, int64(0), metrics.total)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &fakeBookingRepo{err: assert.AnError}
	metrics := &fakeMetrics{}

	uc := NewUseCase(repo, metrics, nopLogger{})
	uc.timeProvider = fixedTime{testNow}

	_, err := uc.Execute(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int64(0), metrics.total)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := NewUseCase(repo, &fakeMetrics{}, nopLogger{})
	uc.timeProvider = fixedTime{testNow}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		uc.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	assert.NotEmpty(t, repo.calls)
}
