package store

import (
	"context"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
)

// GetMember retrieves a member by ID.
func (s *Store) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	return s.Members.Get(ctx, id)
}

// GetMemberByEmail retrieves a member by email, case-insensitively.
func (s *Store) GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return s.Members.GetByIndex(ctx, "email", email)
}

// GetMemberByMembershipNumber retrieves a member by their membership number.
func (s *Store) GetMemberByMembershipNumber(ctx context.Context, number string) (*domain.Member, error) {
	return s.Members.GetByIndex(ctx, "membership_number", number)
}

// ListMembers returns all registered members.
func (s *Store) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	return s.Members.All(ctx)
}

// ListActiveMembers returns members whose membership is active as of now.
func (s *Store) ListActiveMembers(ctx context.Context, now time.Time) ([]*domain.Member, error) {
	return s.Members.Where(ctx, func(m *domain.Member) bool {
		return m.IsMembershipActive(now)
	})
}
