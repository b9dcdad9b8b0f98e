package domain

import (
	"strings"
	"time"
)

// Member is a registered library patron. Loan and reservation records
// reference members by ID; the derived active-loan count lives with the
// lending ledger.
type Member struct {
	Base
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone,omitempty"`
	BirthDate           *time.Time `json:"birth_date,omitempty"`
	Address             string     `json:"address,omitempty"`
	MembershipNumber    string     `json:"membership_number"`
	Active              bool       `json:"active"`
	MembershipStartDate time.Time  `json:"membership_start_date"`
	MembershipEndDate   *time.Time `json:"membership_end_date,omitempty"`
}

// SameAs reports natural-key equality: members are identified by email.
func (m *Member) SameAs(other *Member) bool {
	if other == nil {
		return false
	}
	return m.Email != "" && m.Email == other.Email
}

// FullName joins first and last name for display.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Age returns the member's age in whole years as of now, or 0 when the
// birth date is unknown.
func (m *Member) Age(now time.Time) int {
	if m.BirthDate == nil {
		return 0
	}
	years := now.UTC().Year() - m.BirthDate.UTC().Year()
	// Birthday not reached yet this year.
	anniversary := m.BirthDate.UTC().AddDate(years, 0, 0)
	if dateAfter(anniversary, now) {
		years--
	}
	return years
}

// IsMembershipActive reports whether the membership is usable as of now:
// the active flag is set and the end date, if any, has not passed.
func (m *Member) IsMembershipActive(now time.Time) bool {
	if !m.Active {
		return false
	}
	if m.MembershipEndDate == nil {
		return true
	}
	return !dateAfter(now, *m.MembershipEndDate)
}

// MembershipDays returns the membership duration in whole days as of now.
func (m *Member) MembershipDays(now time.Time) int {
	if m.MembershipStartDate.IsZero() {
		return 0
	}
	end := now
	if m.MembershipEndDate != nil && dateBefore(*m.MembershipEndDate, now) {
		end = *m.MembershipEndDate
	}
	return DaysBetween(m.MembershipStartDate, end)
}
