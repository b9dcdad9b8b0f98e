package domain

// BookStatus is the availability state of a physical copy.
// The status machine is total: any status may replace any other through an
// explicit transition, there is no guarded transition table.
type BookStatus string

// The six availability states.
const (
	StatusAvailable        BookStatus = "AVAILABLE"
	StatusBorrowed         BookStatus = "BORROWED"
	StatusReserved         BookStatus = "RESERVED"
	StatusLost             BookStatus = "LOST"
	StatusDamaged          BookStatus = "DAMAGED"
	StatusUnderMaintenance BookStatus = "UNDER_MAINTENANCE"
)

// statusTraits holds the derived predicates per status. Kept as a lookup
// table so the predicate set stays closed over the six states.
var statusTraits = map[BookStatus]struct {
	borrowable bool
	reservable bool
}{
	StatusAvailable:        {borrowable: true, reservable: true},
	StatusBorrowed:         {reservable: true},
	StatusReserved:         {},
	StatusLost:             {},
	StatusDamaged:          {},
	StatusUnderMaintenance: {},
}

// AllBookStatuses returns the six statuses in declaration order.
func AllBookStatuses() []BookStatus {
	return []BookStatus{
		StatusAvailable,
		StatusBorrowed,
		StatusReserved,
		StatusLost,
		StatusDamaged,
		StatusUnderMaintenance,
	}
}

// Valid reports whether s is one of the six declared statuses.
func (s BookStatus) Valid() bool {
	_, ok := statusTraits[s]
	return ok
}

// IsAvailableForBorrow reports whether a copy in this status can be lent out.
// Only AVAILABLE qualifies.
func (s BookStatus) IsAvailableForBorrow() bool {
	return statusTraits[s].borrowable
}

// IsAvailableForReservation reports whether a copy in this status can be
// reserved. A borrowed copy can still be claimed by a future borrower, so
// both AVAILABLE and BORROWED qualify.
func (s BookStatus) IsAvailableForReservation() bool {
	return statusTraits[s].reservable
}

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

// Reservation lifecycle states.
const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationFulfilled ReservationStatus = "FULFILLED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

// AllReservationStatuses returns the reservation states in declaration order.
func AllReservationStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationPending,
		ReservationFulfilled,
		ReservationCancelled,
		ReservationExpired,
	}
}

// Valid reports whether s is a declared reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationFulfilled, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}

// IsCompleted reports whether the reservation has reached a terminal state.
func (s ReservationStatus) IsCompleted() bool {
	return s != ReservationPending && s.Valid()
}
