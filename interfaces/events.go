package interfaces

import (
	"context"

	"github.com/billingstack/namesilo/dto"
)

// EventsPublisher emits domain lifecycle events to the message broker.
// Publishing is fire-and-forget: a failed publish never fails the
// business operation that triggered it.
type EventsPublisher interface {
	PublishDomainEvent(ctx context.Context, event dto.DomainEvent)
	Close() error
}
