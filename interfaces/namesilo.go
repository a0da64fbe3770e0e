package interfaces

import "context"

// NamesiloService wraps every call to the NameSilo API under one
// authenticated base URL. It raises transport and registrar errors only;
// local-record concerns belong to the domain service.
type NamesiloService interface {
	CheckAvailability(ctx context.Context, domain string) (*DomainAvailability, error)
	RegisterDomain(ctx context.Context, domain string, years int, contact Contact) (*DomainRegistration, error)
	TransferDomain(ctx context.Context, domain, authCode string) (*DomainTransfer, error)
	RenewDomain(ctx context.Context, domain string, years int) (*DomainRenewal, error)
	GetDomainInfo(ctx context.Context, domain string) (*NamesiloDomainInfo, error)
	UpdateNameservers(ctx context.Context, domain string, nameservers []string) error
	GetPricing(ctx context.Context, tld string) (map[string]TldPricing, error)
}

// Contact is the registrant contact sent with a registration, mapped onto
// NameSilo's compact field codes (fn, ln, ad, cy, st, zp, ct, em, ph) by the
// client. Built fresh per call, never persisted.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type DomainAvailability struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
	Price     string `json:"price,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type DomainRegistration struct {
	OrderID string `json:"orderId"`
	Domain  string `json:"domain"`
	Amount  string `json:"amount"`
}

type DomainTransfer struct {
	OrderID string `json:"orderId"`
	Domain  string `json:"domain"`
	Amount  string `json:"amount"`
}

type DomainRenewal struct {
	OrderID string `json:"orderId"`
	Amount  string `json:"amount"`
}

type NamesiloDomainInfo struct {
	Status      string   `json:"status"`
	Created     string   `json:"created"`
	Expires     string   `json:"expires"`
	Nameservers []string `json:"nameservers"`
	Locked      bool     `json:"locked"`
	AutoRenew   bool     `json:"autoRenew"`
}

type TldPricing struct {
	Registration string `json:"registration"`
	Renewal      string `json:"renewal"`
	Transfer     string `json:"transfer"`
}
