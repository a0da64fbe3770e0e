package events

import (
	"encoding/json"
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/net/context"

	"github.com/billingstack/namesilo/dto"
	"github.com/billingstack/namesilo/interfaces"
	"github.com/billingstack/namesilo/internal/logger"
	"github.com/billingstack/namesilo/internal/tracing"
)

const eventsExchange = "namesilo-events"

type eventsPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     logger.Logger
	mu      sync.Mutex
}

// NewEventsPublisher connects to RabbitMQ and declares the domain events
// exchange. An empty URL returns a no-op publisher so the module runs
// without a broker.
func NewEventsPublisher(url string, log logger.Logger) (interfaces.EventsPublisher, error) {
	if url == "" {
		log.Info("events publisher disabled, no RabbitMQ url configured")
		return &noopPublisher{}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to open RabbitMQ channel")
	}

	if err = channel.ExchangeDeclare(eventsExchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, errors.Wrap(err, "failed to declare events exchange")
	}

	return &eventsPublisher{
		conn:    conn,
		channel: channel,
		log:     log,
	}, nil
}

// PublishDomainEvent is fire-and-forget. Broker failures are logged and
// never propagate into the billing flow that triggered the event.
func (p *eventsPublisher) PublishDomainEvent(ctx context.Context, event dto.DomainEvent) {
	span, _ := opentracing.StartSpanFromContext(ctx, "EventsPublisher.PublishDomainEvent")
	defer span.Finish()
	span.LogKV("event", event.Event, "domain", event.Domain)

	body, err := json.Marshal(event)
	if err != nil {
		tracing.TraceErr(span, err)
		p.log.Errorf("failed to marshal domain event %s: %v", event.Event, err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, eventsExchange, event.Event, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		tracing.TraceErr(span, err)
		p.log.Errorf("failed to publish domain event %s for %s: %v", event.Event, event.Domain, err)
	}
}

func (p *eventsPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct{}

func (n *noopPublisher) PublishDomainEvent(ctx context.Context, event dto.DomainEvent) {}

func (n *noopPublisher) Close() error { return nil }
