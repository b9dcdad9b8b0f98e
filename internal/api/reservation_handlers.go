package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

func (s *Server) registerReservationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReservations",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations",
		Summary:     "List reservations",
		Tags:        []string{"Reservations"},
	}, s.handleListReservations)

	huma.Register(s.api, huma.Operation{
		OperationID: "createReservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations",
		Summary:     "Place reservation",
		Description: "Places a pending reservation on an AVAILABLE or BORROWED book",
		Tags:        []string{"Reservations"},
	}, s.handleCreateReservation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listActiveReservations",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations/active",
		Summary:     "List active reservations",
		Description: "Pending reservations that have not reached their expiry date",
		Tags:        []string{"Reservations"},
	}, s.handleListActiveReservations)

	huma.Register(s.api, huma.Operation{
		OperationID: "listExpiredReservations",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations/expired",
		Summary:     "List expired reservations",
		Description: "Reservations past their expiry date, whatever their status",
		Tags:        []string{"Reservations"},
	}, s.handleListExpiredReservations)

	huma.Register(s.api, huma.Operation{
		OperationID: "expireOverdueReservations",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations/expire-overdue",
		Summary:     "Expire overdue reservations",
		Description: "Flips every pending reservation past its expiry date to EXPIRED",
		Tags:        []string{"Reservations"},
	}, s.handleExpireOverdueReservations)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReservationsByStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations/status/{status}",
		Summary:     "List reservations by status",
		Tags:        []string{"Reservations"},
	}, s.handleListReservationsByStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReservationsByMember",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations/member/{id}",
		Summary:     "List reservations by member",
		Tags:        []string{"Reservations"},
	}, s.handleListReservationsByMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReservationsByBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations/book/{id}",
		Summary:     "List reservations by book",
		Tags:        []string{"Reservations"},
	}, s.handleListReservationsByBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReservation",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations/{id}",
		Summary:     "Get reservation",
		Tags:        []string{"Reservations"},
	}, s.handleGetReservation)

	huma.Register(s.api, huma.Operation{
		OperationID: "fulfillReservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations/{id}/fulfill",
		Summary:     "Fulfill reservation",
		Tags:        []string{"Reservations"},
	}, s.handleFulfillReservation)

	huma.Register(s.api, huma.Operation{
		OperationID: "cancelReservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations/{id}/cancel",
		Summary:     "Cancel reservation",
		Tags:        []string{"Reservations"},
	}, s.handleCancelReservation)

	huma.Register(s.api, huma.Operation{
		OperationID: "expireReservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations/{id}/expire",
		Summary:     "Expire reservation",
		Tags:        []string{"Reservations"},
	}, s.handleExpireReservation)
}

// === DTOs ===

// ReservationResponse contains reservation data in API responses.
type ReservationResponse struct {
	ID              string     `json:"id" doc:"Reservation ID"`
	BookID          string     `json:"book_id" doc:"Book ID"`
	MemberID        string     `json:"member_id" doc:"Member ID"`
	ReservationDate time.Time  `json:"reservation_date" doc:"Reservation date"`
	ExpiryDate      time.Time  `json:"expiry_date" doc:"Expiry date"`
	FulfilledDate   *time.Time `json:"fulfilled_date,omitempty" doc:"Fulfillment date"`
	Status          string     `json:"status" doc:"Reservation status"`
	Notes           string     `json:"notes,omitempty" doc:"Free-form notes"`
	Active          bool       `json:"active" doc:"Whether the reservation is pending and unexpired as of today"`
	RemainingDays   int        `json:"remaining_days" doc:"Days until expiry as of today"`
	CreatedAt       time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time  `json:"updated_at" doc:"Last update time"`
}

func toReservationResponse(r *domain.Reservation) ReservationResponse {
	now := time.Now()
	return ReservationResponse{
		ID:              r.ID,
		BookID:          r.BookID,
		MemberID:        r.MemberID,
		ReservationDate: r.ReservationDate,
		ExpiryDate:      r.ExpiryDate,
		FulfilledDate:   r.FulfilledDate,
		Status:          string(r.Status),
		Notes:           r.Notes,
		Active:          r.IsActive(now),
		RemainingDays:   r.RemainingDays(now),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toReservationResponses(reservations []*domain.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return resp
}

// ReservationListResponse contains a list of reservations.
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations" doc:"List of reservations"`
}

// ReservationListOutput wraps the reservation list response for Huma.
type ReservationListOutput struct {
	Body ReservationListResponse
}

// ReservationOutput wraps a single reservation response for Huma.
type ReservationOutput struct {
	Body ReservationResponse
}

// ReservationIDInput contains a reservation ID path parameter.
type ReservationIDInput struct {
	ID string `path:"id" doc:"Reservation ID"`
}

// CreateReservationInput wraps the reserve request for Huma.
type CreateReservationInput struct {
	Body service.ReserveInput
}

// ExpireOverdueOutput reports how many reservations the sweep expired.
type ExpireOverdueOutput struct {
	Body struct {
		Expired int `json:"expired" doc:"Number of reservations flipped to EXPIRED"`
	}
}

// === Handlers ===

func (s *Server) handleListReservations(ctx context.Context, _ *struct{}) (*ReservationListOutput, error) {
	reservations, err := s.services.Reservations.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return &ReservationListOutput{Body: ReservationListResponse{Reservations: toReservationResponses(reservations)}}, nil
}

func (s *Server) handleCreateReservation(ctx context.Context, input *CreateReservationInput) (*ReservationOutput, error) {
	reservation, err := s.services.Reservations.Reserve(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &ReservationOutput{Body: toReservationResponse(reservation)}, nil
}

func (s *Server) handleGetReservation(ctx context.Context, input *ReservationIDInput) (*ReservationOutput, error) {
	reservation, err := s.services.Reservations.GetReservation(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReservationOutput{Body: toReservationResponse(reservation)}, nil
}

func (s *Server) handleListActiveReservations(ctx context.Context, _ *struct{}) (*ReservationListOutput, error) {
	reservations, err := s.services.Reservations.ListActiveReservations(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &ReservationListOutput{Body: ReservationListResponse{Reservations: toReservationResponses(reservations)}}, nil
}

func (s *Server) handleListExpiredReservations(ctx context.Context, _ *struct{}) (*ReservationListOutput, error) {
	reservations, err := s.services.Reservations.ListExpiredReservations(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &ReservationListOutput{Body: ReservationListResponse{Reservations: toReservationResponses(reservations)}}, nil
}

func (s *Server) handleExpireOverdueReservations(ctx context.Context, _ *struct{}) (*ExpireOverdueOutput, error) {
	count, err := s.services.Reservations.ExpireOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	out := &ExpireOverdueOutput{}
	out.Body.Expired = count
	return out, nil
}

func (s *Server) handleListReservationsByStatus(ctx context.Context, input *struct {
	Status string `path:"status" doc:"Reservation status"`
}) (*ReservationListOutput, error) {
	reservations, err := s.services.Reservations.ListReservationsByStatus(ctx, domain.ReservationStatus(input.Status))
	if err != nil {
		return nil, err
	}
	return &ReservationListOutput{Body: ReservationListResponse{Reservations: toReservationResponses(reservations)}}, nil
}

func (s *Server) handleListReservationsByMember(ctx context.Context, input *ReservationIDInput) (*ReservationListOutput, error) {
	reservations, err := s.services.Reservations.ListReservationsByMember(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReservationListOutput{Body: ReservationListResponse{Reservations: toReservationResponses(reservations)}}, nil
}

func (s *Server) handleListReservationsByBook(ctx context.Context, input *ReservationIDInput) (*ReservationListOutput, error) {
	reservations, err := s.services.Reservations.ListReservationsByBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReservationListOutput{Body: ReservationListResponse{Reservations: toReservationResponses(reservations)}}, nil
}

func (s *Server) handleFulfillReservation(ctx context.Context, input *ReservationIDInput) (*ReservationOutput, error) {
	reservation, err := s.services.Reservations.Fulfill(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReservationOutput{Body: toReservationResponse(reservation)}, nil
}

func (s *Server) handleCancelReservation(ctx context.Context, input *ReservationIDInput) (*ReservationOutput, error) {
	reservation, err := s.services.Reservations.Cancel(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReservationOutput{Body: toReservationResponse(reservation)}, nil
}

func (s *Server) handleExpireReservation(ctx context.Context, input *ReservationIDInput) (*ReservationOutput, error) {
	reservation, err := s.services.Reservations.Expire(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReservationOutput{Body: toReservationResponse(reservation)}, nil
}
