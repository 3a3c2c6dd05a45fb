package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	all := []BookingStatus{
		BookingPending, BookingConfirmed, BookingCancelled,
		BookingCheckedIn, BookingCheckedOut, BookingNoShow,
	}

	allowed := map[BookingStatus][]BookingStatus{
		BookingPending:   {BookingConfirmed, BookingCancelled, BookingCheckedIn},
		BookingConfirmed: {BookingCancelled, BookingCheckedIn},
		BookingCheckedIn: {BookingCheckedOut},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	// no status ever returns to PENDING
	for _, from := range all {
		assert.False(t, from.CanTransitionTo(BookingPending), "%s must not go back to PENDING", from)
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingCheckedOut.IsTerminal())
	assert.True(t, BookingNoShow.IsTerminal())
	assert.False(t, BookingPending.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
	assert.False(t, BookingCheckedIn.IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	st, ok := ParseBookingStatus(" checked_in ")
	assert.True(t, ok)
	assert.Equal(t, BookingCheckedIn, st)

	_, ok = ParseBookingStatus("TELEPORTED")
	assert.False(t, ok)
}

func TestBookingNights(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	b := Booking{CheckInDate: day(1), CheckOutDate: day(3)}
	assert.Equal(t, 2, b.Nights())

	b = Booking{CheckInDate: day(1), CheckOutDate: day(2)}
	assert.Equal(t, 1, b.Nights())

	// degenerate range still bills one night
	b = Booking{CheckInDate: day(1), CheckOutDate: day(1)}
	assert.Equal(t, 1, b.Nights())
}
