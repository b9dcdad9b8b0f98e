package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	apperrors "github.com/stackroomapp/stackroom-server/internal/errors"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

func TestReservationService_Reserve(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Wanted Book", "isbn-resv-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	reservation, err := env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:          book.ID,
		MemberID:        member.ID,
		ReservationDate: datePtr(2024, time.May, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, reservation.Status)
	assert.Equal(t, date(2024, time.May, 8), reservation.ExpiryDate)

	// Reserving does not touch the book's status flag.
	persisted, err := env.books.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, persisted.Status)
}

func TestReservationService_Reserve_BorrowedBookAllowed(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Out On Loan", "isbn-resv-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	_, err := env.books.MarkBorrowed(ctx, book.ID)
	require.NoError(t, err)

	_, err = env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.NoError(t, err)
}

func TestReservationService_Reserve_LostBookRefused(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Gone Book", "isbn-resv-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	_, err := env.books.MarkLost(ctx, book.ID)
	require.NoError(t, err)

	_, err = env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestReservationService_Reserve_DuplicateActive(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Popular Book", "isbn-resv-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	_, err := env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.NoError(t, err)

	_, err = env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// A different member may still reserve the same book.
	other := env.createMember(t, "other@example.com", "M-0002")
	_, err = env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:   book.ID,
		MemberID: other.ID,
	})
	require.NoError(t, err)
}

func TestReservationService_FulfillCancelExpire(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	book := env.createBook(t, "Lifecycle Book", "isbn-resv-1")
	member := env.createMember(t, "reader@example.com", "M-0001")

	reservation, err := env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:   book.ID,
		MemberID: member.ID,
	})
	require.NoError(t, err)

	fulfilled, err := env.reservations.Fulfill(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationFulfilled, fulfilled.Status)
	require.NotNil(t, fulfilled.FulfilledDate)

	// Terminal states refuse further transitions.
	_, err = env.reservations.Cancel(ctx, reservation.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = env.reservations.Expire(ctx, reservation.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestReservationService_ExpireOverdue(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	bookA := env.createBook(t, "Stale Hold", "isbn-resv-1")
	bookB := env.createBook(t, "Fresh Hold", "isbn-resv-2")
	member := env.createMember(t, "reader@example.com", "M-0001")

	stale, err := env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:          bookA.ID,
		MemberID:        member.ID,
		ReservationDate: datePtr(2024, time.May, 1),
	})
	require.NoError(t, err)

	fresh, err := env.reservations.Reserve(ctx, service.ReserveInput{
		BookID:          bookB.ID,
		MemberID:        member.ID,
		ReservationDate: datePtr(2024, time.May, 28),
	})
	require.NoError(t, err)

	swept, err := env.reservations.ExpireOverdue(ctx, date(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	got, err := env.reservations.GetReservation(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationExpired, got.Status)

	got, err = env.reservations.GetReservation(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, got.Status)

	// The sweep is idempotent.
	swept, err = env.reservations.ExpireOverdue(ctx, date(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
}
