package interfaces

import (
	"context"

	"github.com/billingstack/namesilo/internal/models"
)

// DomainService orchestrates one business operation per method: validate the
// order data, resolve the registrant contact, call the registrar and
// persist or update the local domain record.
type DomainService interface {
	Register(ctx context.Context, order models.Order, product models.Product, data map[string]string) (*models.DomainRecord, error)
	Transfer(ctx context.Context, order models.Order, product models.Product, data map[string]string) (*models.DomainRecord, error)
	Renew(ctx context.Context, order models.Order, data map[string]string) (*models.DomainRecord, error)
	GetDomainInfo(ctx context.Context, recordID string) (*DomainDetails, error)
	UpdateNameservers(ctx context.Context, recordID string, nameservers []string) error
	CheckAvailability(ctx context.Context, domain string) (*DomainAvailability, error)
	GetPricing(ctx context.Context, tld string) (map[string]TldPricing, error)
	SyncDomainExpiry(ctx context.Context) error
}

// DomainDetails is the stored record merged with live registrar info.
// Live fields win on collision.
type DomainDetails struct {
	models.DomainRecord
	Status           string   `json:"status"`
	Nameservers      []string `json:"nameservers"`
	Locked           bool     `json:"locked"`
	AutoRenew        bool     `json:"autoRenew"`
	RegistrarCreated string   `json:"registrarCreated"`
	RegistrarExpires string   `json:"registrarExpires"`
}
