package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookStatus_IsAvailableForBorrow(t *testing.T) {
	for _, status := range AllBookStatuses() {
		t.Run(string(status), func(t *testing.T) {
			want := status == StatusAvailable
			assert.Equal(t, want, status.IsAvailableForBorrow())
		})
	}
}

func TestBookStatus_IsAvailableForReservation(t *testing.T) {
	for _, status := range AllBookStatuses() {
		t.Run(string(status), func(t *testing.T) {
			want := status == StatusAvailable || status == StatusBorrowed
			assert.Equal(t, want, status.IsAvailableForReservation())
		})
	}
}

func TestBookStatus_Valid(t *testing.T) {
	for _, status := range AllBookStatuses() {
		assert.True(t, status.Valid(), "status %s should be valid", status)
	}
	assert.False(t, BookStatus("SHELVED").Valid())
	assert.False(t, BookStatus("").Valid())
}

func TestAllBookStatuses_Count(t *testing.T) {
	assert.Len(t, AllBookStatuses(), 6)
}

func TestReservationStatus_IsCompleted(t *testing.T) {
	tests := []struct {
		status ReservationStatus
		want   bool
	}{
		{ReservationPending, false},
		{ReservationFulfilled, true},
		{ReservationCancelled, true},
		{ReservationExpired, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsCompleted())
		})
	}
}
