package order

import (
	"context"

	"github.com/ningscard/backend/internal/domain/order"
	"github.com/ningscard/backend/internal/domain/shared"
)

// QueryService answers read-only questions about a customer's ledger
type QueryService struct {
	lineRepo order.OrderLineRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(lineRepo order.OrderLineRepository) *QueryService {
	return &QueryService{lineRepo: lineRepo}
}

// PendingLines returns the customer's unsettled lines, oldest first
func (s *QueryService) PendingLines(ctx context.Context, customerRef string) ([]LineResponse, error) {
	if customerRef == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer reference cannot be empty")
	}
	lines, err := s.lineRepo.FindOpenByCustomer(ctx, customerRef)
	if err != nil {
		return nil, err
	}
	responses := make([]LineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, ToLineResponse(&lines[i]))
	}
	return responses, nil
}
