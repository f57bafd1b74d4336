package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_OccupiesSlot(t *testing.T) {
	now := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		booking Booking
		want    bool
	}{
		{
			name:    "confirmed always occupies",
			booking: Booking{Status: StatusConfirmed},
			want:    true,
		},
		{
			name: "live hold occupies",
			booking: Booking{
				Status:        StatusHold,
				HoldExpiresAt: ptrTime(now.Add(2 * time.Minute)),
			},
			want: true,
		},
		{
			name: "expired hold does not occupy",
			booking: Booking{
				Status:        StatusHold,
				HoldExpiresAt: ptrTime(now.Add(-time.Second)),
			},
			want: false,
		},
		{
			name: "hold expiring exactly now does not occupy",
			booking: Booking{
				Status:        StatusHold,
				HoldExpiresAt: ptrTime(now),
			},
			want: false,
		},
		{
			name:    "cancelled does not occupy",
			booking: Booking{Status: StatusCancelled},
			want:    false,
		},
		{
			name:    "expired does not occupy",
			booking: Booking{Status: StatusExpired},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.OccupiesSlot(now))
		})
	}
}

func TestBooking_Overlaps(t *testing.T) {
	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	b := Booking{
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}

	// Пересечение внутри интервала
	assert.True(t, b.Overlaps(start.Add(15*time.Minute), start.Add(45*time.Minute)))
	assert.True(t, b.Overlaps(start.Add(-15*time.Minute), start.Add(15*time.Minute)))
	assert.True(t, b.Overlaps(start, start.Add(30*time.Minute)))

	// Смежные интервалы не пересекаются
	assert.False(t, b.Overlaps(start.Add(30*time.Minute), start.Add(60*time.Minute)))
	assert.False(t, b.Overlaps(start.Add(-30*time.Minute), start))
}

func TestBooking_IsHoldExpired(t *testing.T) {
	now := time.Date(2026, 9, 14, 12, 5, 0, 0, time.UTC)

	hold := Booking{Status: StatusHold, HoldExpiresAt: ptrTime(now.Add(-time.Second))}
	assert.True(t, hold.IsHoldExpired(now))

	live := Booking{Status: StatusHold, HoldExpiresAt: ptrTime(now.Add(time.Second))}
	assert.False(t, live.IsHoldExpired(now))

	confirmed := Booking{Status: StatusConfirmed}
	assert.False(t, confirmed.IsHoldExpired(now))
}

func TestBooking_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusHold}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusExpired}).CanBeCancelled())
}

func TestBooking_FinalPriceCents(t *testing.T) {
	b := Booking{PriceCents: 5000, DiscountCents: 750}
	assert.Equal(t, int64(4250), b.FinalPriceCents())
}

func TestShop_IsManager(t *testing.T) {
	shop := Shop{ManagerIDs: []int64{10, 20}}
	assert.True(t, shop.IsManager(10))
	assert.False(t, shop.IsManager(30))
}

func TestStylist_WorksOn(t *testing.T) {
	shop := &Shop{WorkingDays: []int{1, 2, 3, 4, 5}}

	inherits := Stylist{}
	assert.True(t, inherits.WorksOn(time.Monday, shop))
	assert.False(t, inherits.WorksOn(time.Sunday, shop))

	override := Stylist{WorkingDays: []int{6}}
	assert.True(t, override.WorksOn(time.Saturday, shop))
	assert.False(t, override.WorksOn(time.Monday, shop))
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
