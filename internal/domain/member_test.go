package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMember_FullName(t *testing.T) {
	m := &Member{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", m.FullName())

	single := &Member{FirstName: "Cher"}
	assert.Equal(t, "Cher", single.FullName())
}

func TestMember_Age(t *testing.T) {
	now := date(2024, 6, 15)

	m := &Member{BirthDate: datePtr(1990, 6, 15)}
	assert.Equal(t, 34, m.Age(now), "birthday today counts")

	m = &Member{BirthDate: datePtr(1990, 6, 16)}
	assert.Equal(t, 33, m.Age(now), "birthday tomorrow does not")

	m = &Member{}
	assert.Equal(t, 0, m.Age(now))
}

func TestMember_IsMembershipActive(t *testing.T) {
	now := date(2024, 6, 1)

	open := &Member{Active: true, MembershipStartDate: date(2020, 1, 1)}
	assert.True(t, open.IsMembershipActive(now), "no end date")

	bounded := &Member{Active: true, MembershipStartDate: date(2020, 1, 1), MembershipEndDate: datePtr(2024, 6, 1)}
	assert.True(t, bounded.IsMembershipActive(now), "end date today still counts")

	lapsed := &Member{Active: true, MembershipStartDate: date(2020, 1, 1), MembershipEndDate: datePtr(2024, 5, 1)}
	assert.False(t, lapsed.IsMembershipActive(now))

	flagged := &Member{Active: false, MembershipStartDate: date(2020, 1, 1)}
	assert.False(t, flagged.IsMembershipActive(now), "inactive flag wins")
}

func TestMember_MembershipDays(t *testing.T) {
	now := date(2024, 1, 31)

	m := &Member{Active: true, MembershipStartDate: date(2024, 1, 1)}
	assert.Equal(t, 30, m.MembershipDays(now))

	ended := &Member{Active: true, MembershipStartDate: date(2024, 1, 1), MembershipEndDate: datePtr(2024, 1, 15)}
	assert.Equal(t, 14, ended.MembershipDays(now), "capped at the end date")

	unset := &Member{}
	assert.Equal(t, 0, unset.MembershipDays(now))
}

func TestMember_SameAs(t *testing.T) {
	a := &Member{FirstName: "Ada", Email: "ada@example.com"}
	a.ID = "mem-1"
	b := &Member{FirstName: "A.", Email: "ada@example.com"}
	b.ID = "mem-2"

	assert.True(t, a.SameAs(b))
	assert.False(t, a.SameAs(&Member{Email: "other@example.com"}))
	assert.False(t, (&Member{}).SameAs(&Member{}), "empty email never matches")
}
