package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/ningscard/backend/internal/application/catalog"
)

// CatalogHandler handles catalog queries
type CatalogHandler struct {
	BaseHandler
	service *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List handles GET /products
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.List)
}
