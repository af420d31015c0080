package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ningscard/backend/internal/domain/catalog"
	"github.com/ningscard/backend/internal/domain/order"
)

// ProductResponse is the API shape of one catalog entry. EffectivePrice
// reflects the volume discount state at query time.
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Item           string          `json:"item"`
	CardNo         string          `json:"card_no,omitempty"`
	IsBox          bool            `json:"is_box"`
	BasePrice      decimal.Decimal `json:"base_price"`
	ThresholdQty   int             `json:"threshold_qty,omitempty"`
	ThresholdPrice decimal.Decimal `json:"threshold_price,omitempty"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	AccumulatedQty int             `json:"accumulated_qty"`
	RemainingStock int             `json:"remaining_stock"`
	ImageURL       string          `json:"image_url,omitempty"`
	ArrivalStatus  string          `json:"arrival_status,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Service answers catalog queries
type Service struct {
	productRepo catalog.ProductRepository
	lineRepo    order.OrderLineRepository
}

// NewService creates a new catalog Service
func NewService(productRepo catalog.ProductRepository, lineRepo order.OrderLineRepository) *Service {
	return &Service{
		productRepo: productRepo,
		lineRepo:    lineRepo,
	}
}

// ListAvailable returns every orderable product with its current effective
// unit price. The global accumulated quantity across all customers decides
// whether the threshold price has been unlocked.
func (s *Service) ListAvailable(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAllAvailable(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		p := &products[i]

		accumulated := 0
		if p.HasVolumeDiscount() {
			accumulated, err = s.lineRepo.SumQuantityByItem(ctx, p.Item, p.CardNo)
			if err != nil {
				return nil, err
			}
		}

		responses = append(responses, ProductResponse{
			ID:             p.ID,
			Item:           p.Item,
			CardNo:         p.CardNo,
			IsBox:          p.IsBox,
			BasePrice:      p.BasePrice,
			ThresholdQty:   p.ThresholdQty,
			ThresholdPrice: p.ThresholdPrice,
			EffectivePrice: catalog.UnitPrice(p.BasePrice, accumulated, p.ThresholdQty, p.ThresholdPrice),
			AccumulatedQty: accumulated,
			RemainingStock: p.RemainingStock,
			ImageURL:       p.ImageURL,
			ArrivalStatus:  p.ArrivalStatus,
			CreatedAt:      p.CreatedAt,
		})
	}
	return responses, nil
}
