package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	breakapp "github.com/ningscard/backend/internal/application/breakpool"
)

// BreakPoolHandler handles group-break enrollment and queries
type BreakPoolHandler struct {
	BaseHandler
	service *breakapp.Service
}

// NewBreakPoolHandler creates a new BreakPoolHandler
func NewBreakPoolHandler(service *breakapp.Service) *BreakPoolHandler {
	return &BreakPoolHandler{service: service}
}

// JoinBreakRequest represents a request to join a group break
type JoinBreakRequest struct {
	BreakID     string  `json:"break_id" binding:"required,max=100"`
	BreakName   string  `json:"break_name" binding:"max=200"`
	CustomerRef string  `json:"customer_ref" binding:"required,max=100"`
	TotalFee    float64 `json:"total_fee" binding:"required,gt=0"`
}

// Join handles POST /breaks/entries
func (h *BreakPoolHandler) Join(c *gin.Context) {
	var req JoinBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	entry, err := h.service.Join(c.Request.Context(), breakapp.JoinRequest{
		BreakID:     req.BreakID,
		BreakName:   req.BreakName,
		CustomerRef: req.CustomerRef,
		TotalFee:    decimal.NewFromFloat(req.TotalFee),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Pending handles GET /breaks/entries/pending
func (h *BreakPoolHandler) Pending(c *gin.Context) {
	customerRef := c.Query("customer_ref")
	if customerRef == "" {
		h.BadRequest(c, "customer_ref query parameter is required")
		return
	}

	entries, err := h.service.PendingEntries(c.Request.Context(), customerRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// RegisterRoutes registers break-pool routes
func (h *BreakPoolHandler) RegisterRoutes(rg *gin.RouterGroup) {
	breaks := rg.Group("/breaks")
	{
		breaks.POST("/entries", h.Join)
		breaks.GET("/entries/pending", h.Pending)
	}
}
