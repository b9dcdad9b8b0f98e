package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

func (s *Server) registerMemberRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/members",
		Summary:     "List members",
		Tags:        []string{"Members"},
	}, s.handleListMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "createMember",
		Method:      http.MethodPost,
		Path:        "/api/v1/members",
		Summary:     "Register member",
		Tags:        []string{"Members"},
	}, s.handleCreateMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "listActiveMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/active",
		Summary:     "List active members",
		Tags:        []string{"Members"},
	}, s.handleListActiveMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMemberByEmail",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/email/{email}",
		Summary:     "Get member by email",
		Tags:        []string{"Members"},
	}, s.handleGetMemberByEmail)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMemberByMembershipNumber",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/number/{number}",
		Summary:     "Get member by membership number",
		Tags:        []string{"Members"},
	}, s.handleGetMemberByMembershipNumber)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMember",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}",
		Summary:     "Get member",
		Tags:        []string{"Members"},
	}, s.handleGetMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMember",
		Method:      http.MethodPatch,
		Path:        "/api/v1/members/{id}",
		Summary:     "Update member",
		Tags:        []string{"Members"},
	}, s.handleUpdateMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMember",
		Method:      http.MethodDelete,
		Path:        "/api/v1/members/{id}",
		Summary:     "Delete member",
		Tags:        []string{"Members"},
	}, s.handleDeleteMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMemberActiveLoanCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/active-loans",
		Summary:     "Get member active loan count",
		Tags:        []string{"Members"},
	}, s.handleGetMemberActiveLoanCount)
}

// === DTOs ===

// MemberResponse contains member data in API responses.
type MemberResponse struct {
	ID                  string     `json:"id" doc:"Member ID"`
	FirstName           string     `json:"first_name" doc:"First name"`
	LastName            string     `json:"last_name" doc:"Last name"`
	FullName            string     `json:"full_name" doc:"Display name"`
	Email               string     `json:"email" doc:"Email"`
	Phone               string     `json:"phone,omitempty" doc:"Phone number"`
	BirthDate           *time.Time `json:"birth_date,omitempty" doc:"Birth date"`
	Address             string     `json:"address,omitempty" doc:"Postal address"`
	MembershipNumber    string     `json:"membership_number" doc:"Membership number"`
	Active              bool       `json:"active" doc:"Active flag"`
	MembershipActive    bool       `json:"membership_active" doc:"Whether the membership is usable as of today"`
	MembershipStartDate time.Time  `json:"membership_start_date" doc:"Membership start"`
	MembershipEndDate   *time.Time `json:"membership_end_date,omitempty" doc:"Membership end"`
	CreatedAt           time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt           time.Time  `json:"updated_at" doc:"Last update time"`
}

func toMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:                  m.ID,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		FullName:            m.FullName(),
		Email:               m.Email,
		Phone:               m.Phone,
		BirthDate:           m.BirthDate,
		Address:             m.Address,
		MembershipNumber:    m.MembershipNumber,
		Active:              m.Active,
		MembershipActive:    m.IsMembershipActive(time.Now()),
		MembershipStartDate: m.MembershipStartDate,
		MembershipEndDate:   m.MembershipEndDate,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toMemberResponses(members []*domain.Member) []MemberResponse {
	resp := make([]MemberResponse, len(members))
	for i, m := range members {
		resp[i] = toMemberResponse(m)
	}
	return resp
}

// MemberListResponse contains a list of members.
type MemberListResponse struct {
	Members []MemberResponse `json:"members" doc:"List of members"`
}

// MemberListOutput wraps the member list response for Huma.
type MemberListOutput struct {
	Body MemberListResponse
}

// MemberOutput wraps a single member response for Huma.
type MemberOutput struct {
	Body MemberResponse
}

// MemberIDInput contains a member ID path parameter.
type MemberIDInput struct {
	ID string `path:"id" doc:"Member ID"`
}

// CreateMemberInput wraps the register member request for Huma.
type CreateMemberInput struct {
	Body service.CreateMemberInput
}

// UpdateMemberInput wraps the update member request for Huma.
type UpdateMemberInput struct {
	ID   string `path:"id" doc:"Member ID"`
	Body service.UpdateMemberInput
}

// ActiveLoanCountOutput wraps the member's open loan count.
type ActiveLoanCountOutput struct {
	Body struct {
		ActiveLoans int `json:"active_loans" doc:"Books currently out on loan"`
	}
}

// === Handlers ===

func (s *Server) handleListMembers(ctx context.Context, _ *struct{}) (*MemberListOutput, error) {
	members, err := s.services.Members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	return &MemberListOutput{Body: MemberListResponse{Members: toMemberResponses(members)}}, nil
}

func (s *Server) handleCreateMember(ctx context.Context, input *CreateMemberInput) (*MemberOutput, error) {
	member, err := s.services.Members.CreateMember(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: toMemberResponse(member)}, nil
}

func (s *Server) handleListActiveMembers(ctx context.Context, _ *struct{}) (*MemberListOutput, error) {
	members, err := s.services.Members.ListActiveMembers(ctx)
	if err != nil {
		return nil, err
	}
	return &MemberListOutput{Body: MemberListResponse{Members: toMemberResponses(members)}}, nil
}

func (s *Server) handleGetMember(ctx context.Context, input *MemberIDInput) (*MemberOutput, error) {
	member, err := s.services.Members.GetMember(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: toMemberResponse(member)}, nil
}

func (s *Server) handleGetMemberByEmail(ctx context.Context, input *struct {
	Email string `path:"email" doc:"Email address"`
}) (*MemberOutput, error) {
	member, err := s.services.Members.GetMemberByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: toMemberResponse(member)}, nil
}

func (s *Server) handleGetMemberByMembershipNumber(ctx context.Context, input *struct {
	Number string `path:"number" doc:"Membership number"`
}) (*MemberOutput, error) {
	member, err := s.services.Members.GetMemberByMembershipNumber(ctx, input.Number)
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: toMemberResponse(member)}, nil
}

func (s *Server) handleUpdateMember(ctx context.Context, input *UpdateMemberInput) (*MemberOutput, error) {
	member, err := s.services.Members.UpdateMember(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: toMemberResponse(member)}, nil
}

func (s *Server) handleDeleteMember(ctx context.Context, input *MemberIDInput) (*struct{}, error) {
	if err := s.services.Members.DeleteMember(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleGetMemberActiveLoanCount(ctx context.Context, input *MemberIDInput) (*ActiveLoanCountOutput, error) {
	count, err := s.services.Members.ActiveLoanCount(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &ActiveLoanCountOutput{}
	out.Body.ActiveLoans = count
	return out, nil
}
