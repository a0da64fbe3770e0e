package dto

import "time"

const (
	DomainRegistered  = "domain.registered"
	DomainTransferred = "domain.transferred"
	DomainRenewed     = "domain.renewed"
)

// DomainEvent is the payload published after a successful domain operation.
type DomainEvent struct {
	Event           string     `json:"event"`
	RecordID        string     `json:"recordId"`
	Domain          string     `json:"domain"`
	OrderID         int64      `json:"orderId"`
	ClientID        int64      `json:"clientId"`
	NamesiloOrderID string     `json:"namesiloOrderId"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	OccurredAt      time.Time  `json:"occurredAt"`
}
