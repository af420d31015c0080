package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/ningscard/backend/internal/application/order"
)

// OrderHandler handles order submission and ledger queries
type OrderHandler struct {
	BaseHandler
	mergeService *orderapp.MergeService
	queryService *orderapp.QueryService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(mergeService *orderapp.MergeService, queryService *orderapp.QueryService) *OrderHandler {
	return &OrderHandler{
		mergeService: mergeService,
		queryService: queryService,
	}
}

// SubmitOrderRequest represents a customer's batch of order entries
type SubmitOrderRequest struct {
	CustomerRef string             `json:"customer_ref" binding:"required,max=100"`
	Entries     []SubmitOrderEntry `json:"entries" binding:"required,min=1,dive"`
}

// SubmitOrderEntry represents one requested position in a submission
type SubmitOrderEntry struct {
	Item     string `json:"item" binding:"required,max=200"`
	CardNo   string `json:"card_no" binding:"max=50"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	IsBox    bool   `json:"is_box"`
}

// Submit handles POST /orders
func (h *OrderHandler) Submit(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	appReq := orderapp.SubmitRequest{
		CustomerRef: req.CustomerRef,
		Entries:     make([]orderapp.SubmitEntry, 0, len(req.Entries)),
	}
	for _, e := range req.Entries {
		appReq.Entries = append(appReq.Entries, orderapp.SubmitEntry{
			Item:     e.Item,
			CardNo:   e.CardNo,
			Quantity: e.Quantity,
			IsBox:    e.IsBox,
		})
	}

	result, err := h.mergeService.Submit(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Pending handles GET /orders/pending
func (h *OrderHandler) Pending(c *gin.Context) {
	customerRef := c.Query("customer_ref")
	if customerRef == "" {
		h.BadRequest(c, "customer_ref query parameter is required")
		return
	}

	lines, err := h.queryService.PendingLines(c.Request.Context(), customerRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Submit)
		orders.GET("/pending", h.Pending)
	}
}
