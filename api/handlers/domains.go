package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/billingstack/namesilo/internal/models"
	"github.com/billingstack/namesilo/internal/tracing"
	"github.com/billingstack/namesilo/services"
)

type OrderPayload struct {
	ID        int64 `json:"id"`
	ClientID  int64 `json:"clientId"`
	ProductID int64 `json:"productId"`
}

type ProductPayload struct {
	ID     int64             `json:"id"`
	Config map[string]string `json:"config"`
}

type ProvisionDomainRequest struct {
	Order   OrderPayload      `json:"order"`
	Product ProductPayload    `json:"product"`
	Data    map[string]string `json:"data"`
}

type RenewDomainRequest struct {
	Order OrderPayload      `json:"order"`
	Data  map[string]string `json:"data"`
}

type UpdateNameserversRequest struct {
	Nameservers []string `json:"nameservers"`
}

type DomainRecordResponse struct {
	ID              string `json:"id"`
	Domain          string `json:"domain"`
	OrderID         int64  `json:"orderId"`
	ClientID        int64  `json:"clientId"`
	NamesiloOrderID string `json:"registrarOrderId"`
	ExpiresAt       string `json:"expiresAt,omitempty"`
}

type DomainsHandler struct {
	svc *services.Services
}

func NewDomainsHandler(s *services.Services) *DomainsHandler {
	return &DomainsHandler{svc: s}
}

// RegisterDomain registers a new domain for a billing order
func (h *DomainsHandler) RegisterDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.RegisterDomain")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var req ProvisionDomainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tracing.TagOrder(span, req.Order.ID)

		record, err := h.svc.DomainService.Register(ctx, toOrder(req.Order), toProduct(req.Product), req.Data)
		if err != nil {
			tracing.TraceErr(span, err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, toDomainResponse(record))
	}
}

// TransferDomain initiates a domain transfer for a billing order
func (h *DomainsHandler) TransferDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.TransferDomain")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var req ProvisionDomainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tracing.TagOrder(span, req.Order.ID)

		record, err := h.svc.DomainService.Transfer(ctx, toOrder(req.Order), toProduct(req.Product), req.Data)
		if err != nil {
			tracing.TraceErr(span, err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, toDomainResponse(record))
	}
}

// RenewDomain renews the domain behind an existing billing order
func (h *DomainsHandler) RenewDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.RenewDomain")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var req RenewDomainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tracing.TagOrder(span, req.Order.ID)

		record, err := h.svc.DomainService.Renew(ctx, toOrder(req.Order), req.Data)
		if err != nil {
			tracing.TraceErr(span, err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, toDomainResponse(record))
	}
}

// GetDomain returns the stored record merged with live registrar details
func (h *DomainsHandler) GetDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.GetDomain")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		id := c.Param("id")
		tracing.TagEntity(span, id)

		details, err := h.svc.DomainService.GetDomainInfo(ctx, id)
		if err != nil {
			tracing.TraceErr(span, err)
			respondError(c, err)
			return
		}

		tracing.LogObjectAsJson(span, "result", details)
		c.JSON(http.StatusOK, details)
	}
}

// UpdateNameservers replaces the nameservers of a managed domain
func (h *DomainsHandler) UpdateNameservers() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.UpdateNameservers")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		id := c.Param("id")
		tracing.TagEntity(span, id)

		var req UpdateNameserversRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := h.svc.DomainService.UpdateNameservers(ctx, id, req.Nameservers); err != nil {
			tracing.TraceErr(span, err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// CheckAvailability checks whether a domain can be registered
func (h *DomainsHandler) CheckAvailability() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.CheckAvailability")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		domain := strings.ToLower(c.Param("domain"))
		if domain == "" {
			message := "Missing required parameter: domain"
			tracing.TraceErr(span, errors.New(message))
			c.JSON(http.StatusBadRequest, gin.H{"error": message})
			return
		}
		span.LogKV("domain", domain)

		availability, err := h.svc.DomainService.CheckAvailability(ctx, domain)
		if err != nil {
			tracing.TraceErr(span, err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, availability)
	}
}

// GetPricing returns registrar pricing, optionally for a single TLD
func (h *DomainsHandler) GetPricing() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DomainsHandler.GetPricing")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		tld := strings.TrimPrefix(strings.ToLower(c.Query("tld")), ".")
		span.LogKV("tld", tld)

		pricing, err := h.svc.DomainService.GetPricing(ctx, tld)
		if err != nil {
			tracing.TraceErr(span, err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, pricing)
	}
}

func toOrder(p OrderPayload) models.Order {
	return models.Order{
		ID:        p.ID,
		ClientID:  p.ClientID,
		ProductID: p.ProductID,
	}
}

func toProduct(p ProductPayload) models.Product {
	return models.Product{
		ID:     p.ID,
		Config: p.Config,
	}
}

func toDomainResponse(record *models.DomainRecord) DomainRecordResponse {
	resp := DomainRecordResponse{
		ID:              record.ID,
		Domain:          record.Domain,
		OrderID:         record.OrderID,
		ClientID:        record.ClientID,
		NamesiloOrderID: record.NamesiloOrderID,
	}
	if record.ExpiresAt != nil {
		resp.ExpiresAt = record.ExpiresAt.Format("2006-01-02")
	}
	return resp
}
