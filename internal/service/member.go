package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/id"
	"github.com/stackroomapp/stackroom-server/internal/store"
	"github.com/stackroomapp/stackroom-server/internal/validation"
)

// MemberService manages library members.
type MemberService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewMemberService creates a new member service.
func NewMemberService(store *store.Store, logger *slog.Logger) *MemberService {
	return &MemberService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateMemberInput carries the fields accepted when registering a member.
type CreateMemberInput struct {
	FirstName        string     `json:"first_name" validate:"required,max=128"`
	LastName         string     `json:"last_name" validate:"required,max=128"`
	Email            string     `json:"email" validate:"required,email"`
	Phone            string     `json:"phone" required:"false" validate:"max=32"`
	BirthDate        *time.Time `json:"birth_date" required:"false"`
	Address          string     `json:"address" required:"false" validate:"max=500"`
	MembershipNumber string     `json:"membership_number" validate:"required,max=32"`
}

// UpdateMemberInput carries the mutable member fields. Nil means unchanged.
type UpdateMemberInput struct {
	FirstName         *string    `json:"first_name,omitempty" validate:"omitempty,max=128"`
	LastName          *string    `json:"last_name,omitempty" validate:"omitempty,max=128"`
	Email             *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string    `json:"phone,omitempty" validate:"omitempty,max=32"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	Address           *string    `json:"address,omitempty" validate:"omitempty,max=500"`
	Active            *bool      `json:"active,omitempty"`
	MembershipEndDate *time.Time `json:"membership_end_date,omitempty"`
}

// CreateMember registers a new member. Emails are unique
// case-insensitively; membership numbers are unique verbatim. Membership
// starts now and is open-ended.
func (s *MemberService) CreateMember(ctx context.Context, input CreateMemberInput) (*domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	memberID, err := id.Generate(id.PrefixMember)
	if err != nil {
		return nil, fmt.Errorf("generate member ID: %w", err)
	}

	member := &domain.Member{
		Base:                domain.Base{ID: memberID},
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		Email:               input.Email,
		Phone:               input.Phone,
		BirthDate:           input.BirthDate,
		Address:             input.Address,
		MembershipNumber:    input.MembershipNumber,
		Active:              true,
		MembershipStartDate: time.Now().UTC(),
	}
	member.InitTimestamps()

	if err := s.store.Members.Create(ctx, member.ID, member); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	s.logger.Info("member registered",
		"member_id", member.ID,
		"membership_number", member.MembershipNumber,
	)

	return member, nil
}

// GetMember retrieves a member by ID.
func (s *MemberService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.store.GetMember(ctx, memberID)
}

// GetMemberByEmail retrieves a member by email, case-insensitively.
func (s *MemberService) GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return s.store.GetMemberByEmail(ctx, email)
}

// GetMemberByMembershipNumber retrieves a member by membership number.
func (s *MemberService) GetMemberByMembershipNumber(ctx context.Context, number string) (*domain.Member, error) {
	return s.store.GetMemberByMembershipNumber(ctx, number)
}

// ListMembers returns all registered members.
func (s *MemberService) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	return s.store.ListMembers(ctx)
}

// ListActiveMembers returns members whose membership is currently usable.
func (s *MemberService) ListActiveMembers(ctx context.Context) ([]*domain.Member, error) {
	return s.store.ListActiveMembers(ctx, time.Now())
}

// UpdateMember applies the given changes to a member.
func (s *MemberService) UpdateMember(ctx context.Context, memberID string, input UpdateMemberInput) (*domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}

	if input.FirstName != nil {
		member.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		member.LastName = *input.LastName
	}
	if input.Email != nil {
		member.Email = *input.Email
	}
	if input.Phone != nil {
		member.Phone = *input.Phone
	}
	if input.BirthDate != nil {
		member.BirthDate = input.BirthDate
	}
	if input.Address != nil {
		member.Address = *input.Address
	}
	if input.Active != nil {
		member.Active = *input.Active
	}
	if input.MembershipEndDate != nil {
		member.MembershipEndDate = input.MembershipEndDate
	}
	member.Touch()

	if err := s.store.Members.Update(ctx, member.ID, member); err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}

	s.logger.Info("member updated", "member_id", member.ID)

	return member, nil
}

// DeleteMember removes a member. Their loan and reservation history is
// kept.
func (s *MemberService) DeleteMember(ctx context.Context, memberID string) error {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return fmt.Errorf("get member: %w", err)
	}
	if err := s.store.Members.Delete(ctx, memberID); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}

	s.logger.Info("member deleted", "member_id", memberID)

	return nil
}

// ActiveLoanCount returns how many books the member currently holds out
// on loan.
func (s *MemberService) ActiveLoanCount(ctx context.Context, memberID string) (int, error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return 0, fmt.Errorf("get member: %w", err)
	}
	return s.store.CountOpenLoansByMember(ctx, memberID)
}
