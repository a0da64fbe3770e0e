package interfaces

import (
	"context"

	"github.com/billingstack/namesilo/internal/models"
)

// ProductAdapter exposes and validates the registrar-specific product
// settings collected by the billing UI.
type ProductAdapter interface {
	ValidateOrder(product models.Product, data map[string]string) error
	ProductDetails(product models.Product) ProductDetails
	TldPricing(ctx context.Context, product models.Product) map[string]TldPricing
}

type ProductDetails struct {
	Tlds     []string          `json:"tlds"`
	Pricing  TldPricing        `json:"pricing"`
	Features ProductFeatures   `json:"features"`
	Config   map[string]string `json:"-"`
}

type ProductFeatures struct {
	PrivacyProtection bool `json:"privacyProtection"`
	AutoRenew         bool `json:"autoRenew"`
	EppRequired       bool `json:"eppRequired"`
	MinYears          int  `json:"minYears"`
	MaxYears          int  `json:"maxYears"`
}
