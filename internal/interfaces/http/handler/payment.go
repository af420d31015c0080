package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	paymentapp "github.com/ningscard/backend/internal/application/payment"
	"github.com/ningscard/backend/internal/domain/payment"
)

// PaymentHandler handles checkout, payment status, and gateway callbacks
type PaymentHandler struct {
	BaseHandler
	checkoutService  *paymentapp.CheckoutService
	reconcileService *paymentapp.ReconcileService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(checkoutService *paymentapp.CheckoutService, reconcileService *paymentapp.ReconcileService) *PaymentHandler {
	return &PaymentHandler{
		checkoutService:  checkoutService,
		reconcileService: reconcileService,
	}
}

// CheckoutPaymentRequest represents a request to start a cashier payment
type CheckoutPaymentRequest struct {
	CustomerRef string   `json:"customer_ref" binding:"required,max=100"`
	PaymentType string   `json:"payment_type" binding:"required,oneof=order break"`
	LineIDs     []string `json:"line_ids" binding:"omitempty,dive,uuid"`
	BreakIDs    []string `json:"break_ids" binding:"omitempty,dive,max=100"`
}

// Checkout handles POST /payments/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req CheckoutPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	lineIDs := make([]uuid.UUID, 0, len(req.LineIDs))
	for _, raw := range req.LineIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid line ID: "+raw)
			return
		}
		lineIDs = append(lineIDs, id)
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), paymentapp.CheckoutRequest{
		CustomerRef: req.CustomerRef,
		PaymentType: payment.PaymentType(req.PaymentType),
		LineIDs:     lineIDs,
		BreakIDs:    req.BreakIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Status handles GET /payments/:trade_no
func (h *PaymentHandler) Status(c *gin.Context) {
	tradeNo := c.Param("trade_no")

	status, err := h.checkoutService.GetStatus(c.Request.Context(), tradeNo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Callback handles POST /payments/ecpay/callback. The gateway posts a form
// and expects a bare-text acknowledgement, not the JSON envelope.
func (h *PaymentHandler) Callback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "0|Bad Request")
		return
	}

	params := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	c.String(http.StatusOK, h.reconcileService.Handle(c.Request.Context(), params))
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/checkout", h.Checkout)
		payments.GET("/:trade_no", h.Status)
		payments.POST("/ecpay/callback", h.Callback)
	}
}
