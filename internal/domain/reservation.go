package domain

import "time"

// DefaultReservationDays is the expiry window applied when no expiry date
// is given.
const DefaultReservationDays = 7

// Reservation is a member's claim on a book for future borrowing, with its
// own expiry window independent of the lending ledger. None of its
// transitions touch the book's availability status; handing the copy to
// the claiming member is a separate, caller-driven step.
type Reservation struct {
	Base
	BookID          string            `json:"book_id"`
	MemberID        string            `json:"member_id"`
	ReservationDate time.Time         `json:"reservation_date"`
	ExpiryDate      time.Time         `json:"expiry_date,omitzero"`
	FulfilledDate   *time.Time        `json:"fulfilled_date,omitempty"`
	Status          ReservationStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
}

// SameAs reports natural-key equality: the (book, member, reservation date)
// triple identifies a reservation.
func (r *Reservation) SameAs(other *Reservation) bool {
	if other == nil {
		return false
	}
	return r.BookID == other.BookID &&
		r.MemberID == other.MemberID &&
		SameDate(r.ReservationDate, other.ReservationDate)
}

// FillDefaultExpiryDate sets the expiry to reservation date +
// DefaultReservationDays. Only fills an empty expiry, never overwrites.
func (r *Reservation) FillDefaultExpiryDate() {
	if !r.ReservationDate.IsZero() && r.ExpiryDate.IsZero() {
		r.ExpiryDate = DateOnly(r.ReservationDate).AddDate(0, 0, DefaultReservationDays)
	}
}

// IsActive reports whether the claim still stands as of today: the
// reservation is PENDING and its expiry date, if set, has not been reached.
func (r *Reservation) IsActive(today time.Time) bool {
	return r.Status == ReservationPending &&
		(r.ExpiryDate.IsZero() || dateBefore(today, r.ExpiryDate))
}

// IsExpired reports whether today is past the expiry date. This is
// independent of Status: a PENDING reservation past its window is expired
// by this predicate even before Expire flips the status.
func (r *Reservation) IsExpired(today time.Time) bool {
	return !r.ExpiryDate.IsZero() && dateAfter(today, r.ExpiryDate)
}

// IsFulfilled reports whether the reservation was honored.
func (r *Reservation) IsFulfilled() bool {
	return r.Status == ReservationFulfilled
}

// RemainingDays returns the days left until expiry, negative once past it.
// With no expiry date set it falls back to the default window length.
func (r *Reservation) RemainingDays(today time.Time) int {
	if r.ExpiryDate.IsZero() {
		return DefaultReservationDays
	}
	return DaysBetween(today, r.ExpiryDate)
}

// Fulfill marks the reservation honored and stamps the fulfilled date.
func (r *Reservation) Fulfill(today time.Time) {
	fulfilled := DateOnly(today)
	r.Status = ReservationFulfilled
	r.FulfilledDate = &fulfilled
	r.Touch()
}

// Cancel marks the reservation withdrawn by the member or staff.
func (r *Reservation) Cancel() {
	r.Status = ReservationCancelled
	r.Touch()
}

// Expire marks the reservation lapsed.
func (r *Reservation) Expire() {
	r.Status = ReservationExpired
	r.Touch()
}
