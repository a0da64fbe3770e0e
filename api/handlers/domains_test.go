package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billingstack/namesilo/interfaces"
	er "github.com/billingstack/namesilo/internal/errors"
	"github.com/billingstack/namesilo/internal/models"
	"github.com/billingstack/namesilo/services"
)

type fakeDomainService struct {
	registerResult     *models.DomainRecord
	registerErr        error
	availabilityResult *interfaces.DomainAvailability
	availabilityErr    error
}

func (f *fakeDomainService) Register(ctx context.Context, order models.Order, product models.Product, data map[string]string) (*models.DomainRecord, error) {
	return f.registerResult, f.registerErr
}

func (f *fakeDomainService) Transfer(ctx context.Context, order models.Order, product models.Product, data map[string]string) (*models.DomainRecord, error) {
	return nil, nil
}

func (f *fakeDomainService) Renew(ctx context.Context, order models.Order, data map[string]string) (*models.DomainRecord, error) {
	return nil, nil
}

func (f *fakeDomainService) GetDomainInfo(ctx context.Context, recordID string) (*interfaces.DomainDetails, error) {
	return nil, er.ErrDomainNotFound
}

func (f *fakeDomainService) UpdateNameservers(ctx context.Context, recordID string, nameservers []string) error {
	return nil
}

func (f *fakeDomainService) CheckAvailability(ctx context.Context, domain string) (*interfaces.DomainAvailability, error) {
	return f.availabilityResult, f.availabilityErr
}

func (f *fakeDomainService) GetPricing(ctx context.Context, tld string) (map[string]interfaces.TldPricing, error) {
	return nil, nil
}

func (f *fakeDomainService) SyncDomainExpiry(ctx context.Context) error {
	return nil
}

func setupRouter(domainService interfaces.DomainService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svcs := &services.Services{DomainService: domainService}
	handler := NewDomainsHandler(svcs)

	r := gin.New()
	r.POST("/v1/domains/register", handler.RegisterDomain())
	r.GET("/v1/domains/:id", handler.GetDomain())
	r.GET("/v1/availability/:domain", handler.CheckAvailability())
	return r
}

func TestRegisterDomain_Created(t *testing.T) {
	fake := &fakeDomainService{
		registerResult: &models.DomainRecord{
			ID:              "dom_abc",
			Domain:          "example.com",
			OrderID:         10,
			ClientID:        5,
			NamesiloOrderID: "ns-1",
		},
	}
	router := setupRouter(fake)

	body, _ := json.Marshal(ProvisionDomainRequest{
		Order:   OrderPayload{ID: 10, ClientID: 5, ProductID: 3},
		Product: ProductPayload{ID: 3, Config: map[string]string{"tlds": "com"}},
		Data:    map[string]string{"domain_sld": "example", "domain_tld": "com"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/domains/register", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp DomainRecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dom_abc", resp.ID)
	assert.Equal(t, "example.com", resp.Domain)
	assert.Equal(t, "ns-1", resp.NamesiloOrderID)
}

func TestRegisterDomain_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation error", er.NewValidationError("domain_tld", "field is required"), http.StatusBadRequest},
		{"registrar rejection", er.NewRegistrarError(261, "domain already registered"), http.StatusUnprocessableEntity},
		{"transport failure", er.NewTransportError(503, nil), http.StatusBadGateway},
		{"not found", er.ErrDomainNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&fakeDomainService{registerErr: tt.err})

			body, _ := json.Marshal(ProvisionDomainRequest{})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/domains/register", bytes.NewReader(body))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestRegisterDomain_MalformedBody(t *testing.T) {
	router := setupRouter(&fakeDomainService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/domains/register", bytes.NewReader([]byte("{not json")))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDomain_NotFound(t *testing.T) {
	router := setupRouter(&fakeDomainService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/domains/dom_missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckAvailability_Ok(t *testing.T) {
	fake := &fakeDomainService{
		availabilityResult: &interfaces.DomainAvailability{
			Domain:    "example.com",
			Available: true,
			Price:     "9.99",
		},
	}
	router := setupRouter(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/availability/example.com", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp interfaces.DomainAvailability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Equal(t, "9.99", resp.Price)
}
