package store

import (
	"context"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
)

// GetReservation retrieves a reservation by ID.
func (s *Store) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.Reservations.Get(ctx, id)
}

// ListReservations returns the full reservation ledger.
func (s *Store) ListReservations(ctx context.Context) ([]*domain.Reservation, error) {
	return s.Reservations.All(ctx)
}

// ListReservationsByMember returns all reservations placed by the member.
func (s *Store) ListReservationsByMember(ctx context.Context, memberID string) ([]*domain.Reservation, error) {
	return s.Reservations.Where(ctx, func(r *domain.Reservation) bool {
		return r.MemberID == memberID
	})
}

// ListReservationsByBook returns all reservations placed on the book.
func (s *Store) ListReservationsByBook(ctx context.Context, bookID string) ([]*domain.Reservation, error) {
	return s.Reservations.Where(ctx, func(r *domain.Reservation) bool {
		return r.BookID == bookID
	})
}

// ListReservationsByStatus returns all reservations in the given status.
func (s *Store) ListReservationsByStatus(ctx context.Context, status domain.ReservationStatus) ([]*domain.Reservation, error) {
	return s.Reservations.Where(ctx, func(r *domain.Reservation) bool {
		return r.Status == status
	})
}

// ListActiveReservations returns pending reservations that have not
// expired as of the given date.
func (s *Store) ListActiveReservations(ctx context.Context, asOf time.Time) ([]*domain.Reservation, error) {
	return s.Reservations.Where(ctx, func(r *domain.Reservation) bool {
		return r.IsActive(asOf)
	})
}

// ListExpiredPendingReservations returns reservations still marked
// pending whose expiry date has passed. These are candidates for the
// expiry sweep.
func (s *Store) ListExpiredPendingReservations(ctx context.Context, asOf time.Time) ([]*domain.Reservation, error) {
	return s.Reservations.Where(ctx, func(r *domain.Reservation) bool {
		return r.Status == domain.ReservationPending && r.IsExpired(asOf)
	})
}

// ActiveReservationForBook returns the active reservation on the book
// placed by the member, or ErrNotFound when none exists.
func (s *Store) ActiveReservationForBook(ctx context.Context, bookID, memberID string, asOf time.Time) (*domain.Reservation, error) {
	found, err := s.Reservations.Where(ctx, func(r *domain.Reservation) bool {
		return r.BookID == bookID && r.MemberID == memberID && r.IsActive(asOf)
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNotFound.WithDetails("no active reservation for book " + bookID)
	}
	return found[0], nil
}
