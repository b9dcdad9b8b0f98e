package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	apperrors "github.com/stackroomapp/stackroom-server/internal/errors"
	"github.com/stackroomapp/stackroom-server/internal/id"
	"github.com/stackroomapp/stackroom-server/internal/store"
	"github.com/stackroomapp/stackroom-server/internal/validation"
)

// ReservationService manages the reservation ledger. Reservations track a
// claim on a title; none of their transitions touch the book's status flag.
type ReservationService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewReservationService creates a new reservation service.
func NewReservationService(store *store.Store, logger *slog.Logger) *ReservationService {
	return &ReservationService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ReserveInput carries the fields accepted when placing a reservation.
type ReserveInput struct {
	BookID          string     `json:"book_id" validate:"required"`
	MemberID        string     `json:"member_id" validate:"required"`
	ReservationDate *time.Time `json:"reservation_date" required:"false"` // defaults to today
	Notes           string     `json:"notes" required:"false" validate:"max=1000"`
}

// Reserve places a pending reservation. The book must be reservable
// (AVAILABLE or BORROWED), the member's membership must be active, and the
// member must not already hold an active reservation on the same book.
func (s *ReservationService) Reserve(ctx context.Context, input ReserveInput) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, input.BookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	member, err := s.store.GetMember(ctx, input.MemberID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}

	now := time.Now()
	if !book.IsAvailableForReservation() {
		return nil, apperrors.Conflict(fmt.Sprintf("book is %s, not available for reservation", book.Status))
	}
	if !member.IsMembershipActive(now) {
		return nil, apperrors.Conflict("membership is not active")
	}

	if _, err := s.store.ActiveReservationForBook(ctx, input.BookID, input.MemberID, now); err == nil {
		return nil, apperrors.Conflict("member already holds an active reservation on this book")
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	reservationDate := domain.DateOnly(now)
	if input.ReservationDate != nil {
		reservationDate = domain.DateOnly(*input.ReservationDate)
	}

	reservationID, err := id.Generate(id.PrefixReservation)
	if err != nil {
		return nil, fmt.Errorf("generate reservation ID: %w", err)
	}

	reservation := &domain.Reservation{
		Base:            domain.Base{ID: reservationID},
		BookID:          input.BookID,
		MemberID:        input.MemberID,
		ReservationDate: reservationDate,
		Status:          domain.ReservationPending,
		Notes:           input.Notes,
	}
	reservation.FillDefaultExpiryDate()
	reservation.InitTimestamps()

	if err := s.store.Reservations.Create(ctx, reservation.ID, reservation); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.logger.Info("reservation placed",
		"reservation_id", reservation.ID,
		"book_id", reservation.BookID,
		"member_id", reservation.MemberID,
		"expiry_date", reservation.ExpiryDate,
	)

	return reservation, nil
}

// GetReservation retrieves a reservation by ID.
func (s *ReservationService) GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return s.store.GetReservation(ctx, reservationID)
}

// ListReservations returns the full reservation ledger.
func (s *ReservationService) ListReservations(ctx context.Context) ([]*domain.Reservation, error) {
	return s.store.ListReservations(ctx)
}

// ListReservationsByStatus returns reservations in the given status.
func (s *ReservationService) ListReservationsByStatus(ctx context.Context, status domain.ReservationStatus) ([]*domain.Reservation, error) {
	if !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown reservation status %q", status))
	}
	return s.store.ListReservationsByStatus(ctx, status)
}

// ListReservationsByMember returns all reservations placed by the member.
func (s *ReservationService) ListReservationsByMember(ctx context.Context, memberID string) ([]*domain.Reservation, error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return s.store.ListReservationsByMember(ctx, memberID)
}

// ListReservationsByBook returns all reservations placed on the book.
func (s *ReservationService) ListReservationsByBook(ctx context.Context, bookID string) ([]*domain.Reservation, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return s.store.ListReservationsByBook(ctx, bookID)
}

// ListActiveReservations returns pending, unexpired reservations as of the
// given date.
func (s *ReservationService) ListActiveReservations(ctx context.Context, asOf time.Time) ([]*domain.Reservation, error) {
	return s.store.ListActiveReservations(ctx, asOf)
}

// ListExpiredReservations returns reservations whose expiry date has
// passed as of the given date, regardless of status.
func (s *ReservationService) ListExpiredReservations(ctx context.Context, asOf time.Time) ([]*domain.Reservation, error) {
	return s.store.Reservations.Where(ctx, func(r *domain.Reservation) bool {
		return r.IsExpired(asOf)
	})
}

// Fulfill marks a pending reservation fulfilled, stamping today as the
// fulfillment date.
func (s *ReservationService) Fulfill(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return s.transition(ctx, reservationID, func(r *domain.Reservation) {
		r.Fulfill(time.Now())
	}, "fulfilled")
}

// Cancel marks a pending reservation cancelled.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return s.transition(ctx, reservationID, func(r *domain.Reservation) {
		r.Cancel()
	}, "cancelled")
}

// Expire marks a pending reservation expired.
func (s *ReservationService) Expire(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return s.transition(ctx, reservationID, func(r *domain.Reservation) {
		r.Expire()
	}, "expired")
}

// transition applies a terminal transition to a pending reservation.
func (s *ReservationService) transition(ctx context.Context, reservationID string, apply func(*domain.Reservation), verb string) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reservation, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if reservation.Status.IsCompleted() {
		return nil, apperrors.Conflict(fmt.Sprintf("reservation is already %s", reservation.Status))
	}

	apply(reservation)
	reservation.Touch()

	if err := s.store.Reservations.Update(ctx, reservation.ID, reservation); err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}

	s.logger.Info("reservation "+verb, "reservation_id", reservation.ID, "book_id", reservation.BookID)

	return reservation, nil
}

// ExpireOverdue flips every pending reservation past its expiry date to
// EXPIRED and returns how many were swept.
func (s *ReservationService) ExpireOverdue(ctx context.Context, asOf time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	expired, err := s.store.ListExpiredPendingReservations(ctx, asOf)
	if err != nil {
		return 0, err
	}

	for _, reservation := range expired {
		reservation.Expire()
		reservation.Touch()
		if err := s.store.Reservations.Update(ctx, reservation.ID, reservation); err != nil {
			return 0, fmt.Errorf("expire reservation %s: %w", reservation.ID, err)
		}
	}

	if len(expired) > 0 {
		s.logger.Info("expired overdue reservations", "count", len(expired))
	}

	return len(expired), nil
}
