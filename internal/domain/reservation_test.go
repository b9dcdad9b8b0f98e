package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservation_FillDefaultExpiryDate(t *testing.T) {
	resv := &Reservation{ReservationDate: date(2024, 3, 1)}

	resv.FillDefaultExpiryDate()
	assert.Equal(t, date(2024, 3, 8), resv.ExpiryDate)

	resv.FillDefaultExpiryDate()
	assert.Equal(t, date(2024, 3, 8), resv.ExpiryDate, "second call must not move the expiry")
}

func TestReservation_FillDefaultExpiryDate_ExplicitKept(t *testing.T) {
	resv := &Reservation{
		ReservationDate: date(2024, 3, 1),
		ExpiryDate:      date(2024, 3, 20),
	}
	resv.FillDefaultExpiryDate()
	assert.Equal(t, date(2024, 3, 20), resv.ExpiryDate)
}

func TestReservation_ActiveAndExpired(t *testing.T) {
	resv := &Reservation{
		Status:          ReservationPending,
		ReservationDate: date(2024, 3, 1),
		ExpiryDate:      date(2024, 3, 8),
	}

	// Before the window closes.
	assert.True(t, resv.IsActive(date(2024, 3, 5)))
	assert.False(t, resv.IsExpired(date(2024, 3, 5)))

	// On the expiry date itself: no longer active, not yet expired.
	assert.False(t, resv.IsActive(date(2024, 3, 8)))
	assert.False(t, resv.IsExpired(date(2024, 3, 8)))

	// Past the window while still PENDING: expired and inactive at once.
	// The predicates are independent, not mutually exclusive by construction.
	assert.False(t, resv.IsActive(date(2024, 3, 10)))
	assert.True(t, resv.IsExpired(date(2024, 3, 10)))
}

func TestReservation_IsActive_NoExpiry(t *testing.T) {
	resv := &Reservation{
		Status:          ReservationPending,
		ReservationDate: date(2024, 3, 1),
	}
	assert.True(t, resv.IsActive(date(2030, 1, 1)))
	assert.False(t, resv.IsExpired(date(2030, 1, 1)))
}

func TestReservation_IsActive_TerminalStatus(t *testing.T) {
	for _, status := range []ReservationStatus{ReservationFulfilled, ReservationCancelled, ReservationExpired} {
		resv := &Reservation{
			Status:          status,
			ReservationDate: date(2024, 3, 1),
			ExpiryDate:      date(2024, 3, 8),
		}
		assert.False(t, resv.IsActive(date(2024, 3, 2)), "status %s", status)
	}
}

func TestReservation_RemainingDays(t *testing.T) {
	resv := &Reservation{
		Status:          ReservationPending,
		ReservationDate: date(2024, 3, 1),
		ExpiryDate:      date(2024, 3, 8),
	}

	assert.Equal(t, 3, resv.RemainingDays(date(2024, 3, 5)))
	assert.Equal(t, -2, resv.RemainingDays(date(2024, 3, 10)))

	// No expiry set: fall back to the default window, not a computed value.
	noExpiry := &Reservation{Status: ReservationPending, ReservationDate: date(2024, 3, 1)}
	assert.Equal(t, DefaultReservationDays, noExpiry.RemainingDays(date(2024, 3, 5)))
}

func TestReservation_Fulfill(t *testing.T) {
	resv := &Reservation{
		Status:          ReservationPending,
		ReservationDate: date(2024, 3, 1),
		ExpiryDate:      date(2024, 3, 8),
	}

	resv.Fulfill(date(2024, 3, 4))

	assert.Equal(t, ReservationFulfilled, resv.Status)
	require.NotNil(t, resv.FulfilledDate)
	assert.Equal(t, date(2024, 3, 4), *resv.FulfilledDate)
	assert.True(t, resv.IsFulfilled())
}

func TestReservation_CancelAndExpire(t *testing.T) {
	resv := &Reservation{Status: ReservationPending, ReservationDate: date(2024, 3, 1)}
	resv.Cancel()
	assert.Equal(t, ReservationCancelled, resv.Status)
	assert.Nil(t, resv.FulfilledDate)

	resv = &Reservation{Status: ReservationPending, ReservationDate: date(2024, 3, 1)}
	resv.Expire()
	assert.Equal(t, ReservationExpired, resv.Status)
}

func TestReservation_SameAs(t *testing.T) {
	base := &Reservation{BookID: "book-1", MemberID: "mem-1", ReservationDate: date(2024, 3, 1)}

	assert.True(t, base.SameAs(&Reservation{BookID: "book-1", MemberID: "mem-1", ReservationDate: date(2024, 3, 1)}))
	assert.False(t, base.SameAs(&Reservation{BookID: "book-1", MemberID: "mem-2", ReservationDate: date(2024, 3, 1)}))
	assert.False(t, base.SameAs(nil))
}
