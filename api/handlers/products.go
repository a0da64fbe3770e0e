package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/billingstack/namesilo/internal/tracing"
	"github.com/billingstack/namesilo/services"
)

type ProductPricingRequest struct {
	Product ProductPayload `json:"product"`
}

type ProductsHandler struct {
	svc *services.Services
}

func NewProductsHandler(s *services.Services) *ProductsHandler {
	return &ProductsHandler{svc: s}
}

// Pricing returns one pricing triple per configured TLD, upgraded with live
// registrar prices when the price list is reachable
func (h *ProductsHandler) Pricing() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ProductsHandler.Pricing")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var req ProductPricingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		pricing := h.svc.ProductAdapter.TldPricing(ctx, toProduct(req.Product))

		tracing.LogObjectAsJson(span, "result", pricing)
		c.JSON(http.StatusOK, pricing)
	}
}
