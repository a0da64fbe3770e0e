package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/billingstack/namesilo/api/handlers"
	"github.com/billingstack/namesilo/api/middleware"
	"github.com/billingstack/namesilo/internal/repository"
	"github.com/billingstack/namesilo/internal/tracing"
	"github.com/billingstack/namesilo/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	apiHandlers := handlers.InitHandlers(s)

	// Health check endpoint (no auth)
	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-BILLING-API-KEY",
		ValidAPIKey: apikey,
	})

	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	api.Use(middleware.TracingMiddleware())
	{
		domains := api.Group("/domains")
		{
			domains.POST("/register", apiHandlers.Domains.RegisterDomain())
			domains.POST("/transfer", apiHandlers.Domains.TransferDomain())
			domains.POST("/renew", apiHandlers.Domains.RenewDomain())
			domains.GET("/:id", apiHandlers.Domains.GetDomain())
			domains.PUT("/:id/nameservers", apiHandlers.Domains.UpdateNameservers())
		}

		api.GET("/availability/:domain", apiHandlers.Domains.CheckAvailability())
		api.GET("/pricing", apiHandlers.Domains.GetPricing())
		api.POST("/products/pricing", apiHandlers.Products.Pricing())
	}
}
