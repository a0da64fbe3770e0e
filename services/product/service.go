package product

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/opentracing/opentracing-go"
	"golang.org/x/net/context"

	"github.com/billingstack/namesilo/interfaces"
	er "github.com/billingstack/namesilo/internal/errors"
	"github.com/billingstack/namesilo/internal/logger"
	"github.com/billingstack/namesilo/internal/models"
	"github.com/billingstack/namesilo/internal/tracing"
	"github.com/billingstack/namesilo/internal/utils"
)

// Product config bag keys collected by the billing admin UI.
const (
	ConfigKeyTlds          = "tlds"
	ConfigKeyRegisterPrice = "register_price"
	ConfigKeyTransferPrice = "transfer_price"
	ConfigKeyRenewPrice    = "renew_price"
	ConfigKeyMinYears      = "min_years"
	ConfigKeyMaxYears      = "max_years"
	ConfigKeyPrivacy       = "privacy_protection"
	ConfigKeyAutoRenew     = "auto_renew"
	ConfigKeyEppRequired   = "epp_required"
)

const (
	defaultPrice    = "15.00"
	defaultMinYears = 1
	defaultMaxYears = 10
)

// Conservative hostname shape: alphanumeric labels separated by single
// hyphens or dots, final label alphabetic with length >= 2.
var domainPattern = regexp.MustCompile(`^(?i)[a-z0-9]+([-.][a-z0-9]+)*\.[a-z]{2,}$`)

type productAdapter struct {
	namesilo interfaces.NamesiloService
	log      logger.Logger
}

func NewProductAdapter(namesilo interfaces.NamesiloService, log logger.Logger) interfaces.ProductAdapter {
	return &productAdapter{
		namesilo: namesilo,
		log:      log,
	}
}

// ParseTlds splits a comma-separated TLD list, trims whitespace, strips a
// leading dot, lowercases and drops empty entries. Order is preserved.
func ParseTlds(raw string) []string {
	if raw == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	tlds := make([]string, 0, len(parts))
	for _, part := range parts {
		tld := strings.TrimPrefix(strings.TrimSpace(part), ".")
		if tld == "" {
			continue
		}
		tlds = append(tlds, strings.ToLower(tld))
	}
	return tlds
}

// IsValidDomainName reports whether the full domain string matches the
// conservative hostname pattern accepted for orders.
func IsValidDomainName(domain string) bool {
	return domainPattern.MatchString(domain)
}

// ValidateOrder checks submitted order data against the product settings
// before any registrar call is made.
func (a *productAdapter) ValidateOrder(product models.Product, data map[string]string) error {
	sld := data["domain_sld"]
	tld := data["domain_tld"]

	if sld == "" {
		return er.NewValidationError("domain_sld", "field is required")
	}
	if tld == "" {
		return er.NewValidationError("domain_tld", "field is required")
	}

	tlds := ParseTlds(product.Config[ConfigKeyTlds])
	if !utils.IsStringInSlice(strings.ToLower(tld), tlds) {
		return er.NewValidationError("domain_tld", "selected TLD is not supported")
	}

	domain := sld + "." + tld
	if !IsValidDomainName(domain) {
		return er.NewValidationError("domain", "invalid domain name format")
	}

	return nil
}

func (a *productAdapter) ProductDetails(product models.Product) interfaces.ProductDetails {
	cfg := product.Config

	return interfaces.ProductDetails{
		Tlds: ParseTlds(cfg[ConfigKeyTlds]),
		Pricing: interfaces.TldPricing{
			Registration: configOrDefault(cfg, ConfigKeyRegisterPrice, defaultPrice),
			Renewal:      configOrDefault(cfg, ConfigKeyRenewPrice, defaultPrice),
			Transfer:     configOrDefault(cfg, ConfigKeyTransferPrice, defaultPrice),
		},
		Features: interfaces.ProductFeatures{
			PrivacyProtection: configBool(cfg, ConfigKeyPrivacy, true),
			AutoRenew:         configBool(cfg, ConfigKeyAutoRenew, true),
			EppRequired:       configBool(cfg, ConfigKeyEppRequired, true),
			MinYears:          configInt(cfg, ConfigKeyMinYears, defaultMinYears),
			MaxYears:          configInt(cfg, ConfigKeyMaxYears, defaultMaxYears),
		},
		Config: cfg,
	}
}

// TldPricing returns one pricing triple per configured TLD. Live registrar
// prices win per TLD when the price list is reachable; the flat configured
// prices are the fallback.
func (a *productAdapter) TldPricing(ctx context.Context, product models.Product) map[string]interfaces.TldPricing {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ProductAdapter.TldPricing")
	defer span.Finish()
	tracing.TagComponentService(span)

	details := a.ProductDetails(product)

	pricing := make(map[string]interfaces.TldPricing, len(details.Tlds))
	for _, tld := range details.Tlds {
		pricing[tld] = details.Pricing
	}

	live, err := a.namesilo.GetPricing(ctx, "")
	if err != nil {
		// flat config prices stay in place
		tracing.TraceErr(span, err)
		a.log.Warnf("live registrar pricing unavailable, using configured prices: %v", err)
		return pricing
	}

	for tld := range pricing {
		if entry, ok := live[tld]; ok {
			pricing[tld] = entry
		}
	}

	return pricing
}

func configOrDefault(cfg map[string]string, key, fallback string) string {
	if v, ok := cfg[key]; ok && v != "" {
		return v
	}
	return fallback
}

func configInt(cfg map[string]string, key string, fallback int) int {
	if v, ok := cfg[key]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func configBool(cfg map[string]string, key string, fallback bool) bool {
	v, ok := cfg[key]
	if !ok || v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "on")
}
