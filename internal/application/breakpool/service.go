package breakpool

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/breakpool"
	"github.com/ningscard/backend/internal/domain/shared"
)

// JoinRequest enrolls a customer into a group break
type JoinRequest struct {
	BreakID     string          `json:"break_id" validate:"required"`
	BreakName   string          `json:"break_name"`
	CustomerRef string          `json:"customer_ref" validate:"required"`
	TotalFee    decimal.Decimal `json:"total_fee" validate:"required"`
}

// EntryResponse is the API shape of one break-pool entry
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	BreakID     string          `json:"break_id"`
	BreakName   string          `json:"break_name,omitempty"`
	TotalFee    decimal.Decimal `json:"total_fee"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toEntryResponse(e *breakpool.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		BreakID:     e.BreakID,
		BreakName:   e.BreakName,
		TotalFee:    e.TotalFee,
		Paid:        e.Paid,
		Outstanding: e.Outstanding(),
		Status:      e.Status.String(),
		CreatedAt:   e.CreatedAt,
	}
}

// Service handles break-pool enrollment and queries
type Service struct {
	repo breakpool.Repository
}

// NewService creates a new break-pool Service
func NewService(repo breakpool.Repository) *Service {
	return &Service{repo: repo}
}

// Join enrolls a customer in a break. One entry per customer per break;
// joining again with an open entry is rejected.
func (s *Service) Join(ctx context.Context, req JoinRequest) (*EntryResponse, error) {
	existing, err := s.repo.FindByBreak(ctx, req.CustomerRef, req.BreakID)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer already joined this break")
	}

	entry, err := breakpool.NewEntry(req.BreakID, req.BreakName, req.CustomerRef, req.TotalFee)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, []breakpool.Entry{*entry}); err != nil {
		return nil, err
	}
	response := toEntryResponse(entry)
	return &response, nil
}

// PendingEntries returns the customer's unsettled break entries
func (s *Service) PendingEntries(ctx context.Context, customerRef string) ([]EntryResponse, error) {
	if customerRef == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer reference cannot be empty")
	}
	entries, err := s.repo.FindOpenByCustomer(ctx, customerRef)
	if err != nil {
		return nil, err
	}
	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toEntryResponse(&entries[i]))
	}
	return responses, nil
}
