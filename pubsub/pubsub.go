// Package pubsub fans accepted orders out to live listeners, backed by
// NATS in production and by an in-process channel broker otherwise.
package pubsub

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/EduardKrecmer/pizzeria-web/order"
)

var tracer = otel.Tracer("pubsub")

// OrderStream publishes accepted orders and hands out live feeds of
// them. The cancel func returned by Subscribe releases the feed; the
// channel is closed afterwards.
type OrderStream interface {
	Publish(ctx context.Context, o *order.Order) error
	Subscribe(ctx context.Context) (<-chan *order.Order, func(), error)
}

const subscriberBuffer = 16

// Broker is the in-process OrderStream. Slow subscribers drop
// messages instead of blocking the publisher.
type Broker struct {
	mu   sync.Mutex
	next int
	subs map[int]chan *order.Order
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan *order.Order)}
}

func (b *Broker) Publish(_ context.Context, o *order.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- o:
		default:
		}
	}
	return nil
}

func (b *Broker) Subscribe(_ context.Context) (<-chan *order.Order, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan *order.Order, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel, nil
}

var _ OrderStream = (*Broker)(nil)
var _ order.Publisher = (*Broker)(nil)
