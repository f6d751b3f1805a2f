package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"github.com/EduardKrecmer/pizzeria-web/order"
)

type NATSSettings struct {
	Enabled        bool `mapstructure:"enabled"`
	UseCredentials bool `mapstructure:"usecredentials"`
	// Only used if UseCredentials is true
	Username string `mapstructure:"username" validate:"required_if=UseCredentials true"`
	Password string `mapstructure:"password" validate:"required_if=UseCredentials true"`
	Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     int    `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1"`
	Subject  string `mapstructure:"subject" validate:"required_if=Enabled true"`
}

func (n *NATSSettings) Connect() (*nats.Conn, error) {
	addr := n.Host + ":" + strconv.Itoa(n.Port)
	if n.UseCredentials {
		return nats.Connect(addr, nats.UserInfo(n.Username, n.Password))
	}
	return nats.Connect(addr)
}

// NATSStream is the OrderStream over a NATS subject, so every gateway
// instance sees orders accepted by any of them.
type NATSStream struct {
	nc      *nats.Conn
	subject string
}

func NewNATSStream(nc *nats.Conn, subject string) *NATSStream {
	return &NATSStream{nc: nc, subject: subject}
}

func (n *NATSStream) Publish(ctx context.Context, o *order.Order) error {
	ctx, span := tracer.Start(ctx, "NATSStream.Publish")
	defer span.End()

	msg := &nats.Msg{
		Subject: n.subject,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	data, err := json.Marshal(o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal order")
		return err
	}
	msg.Data = data

	return n.nc.PublishMsg(msg)
}

func (n *NATSStream) Subscribe(ctx context.Context) (<-chan *order.Order, func(), error) {
	ctx, span := tracer.Start(ctx, "NATSStream.Subscribe")
	defer span.End()

	propagator := otel.GetTextMapPropagator()
	snk := newSink()

	sub, err := n.nc.Subscribe(n.subject, func(msg *nats.Msg) {
		msgCtx := propagator.Extract(ctx, propagation.HeaderCarrier(msg.Header))

		var o order.Order
		if err := json.Unmarshal(msg.Data, &o); err != nil {
			slog.ErrorContext(msgCtx, "failed to unmarshal order from nats message", slog.Any("err", err))
			return
		}

		if !snk.send(&o) {
			slog.WarnContext(msgCtx, "dropping order for slow subscriber", slog.Int64("order-id", o.ID))
		}
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to subscribe to nats subject",
			slog.String("subject", n.subject), slog.Any("err", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to subscribe to nats subject")
		return nil, nil, err
	}

	cancel := func() {
		if err := sub.Unsubscribe(); err != nil {
			slog.WarnContext(ctx, "failed to unsubscribe from nats subject", slog.Any("err", err))
		}
		snk.close()
	}
	return snk.ch, cancel, nil
}

// sink hands decoded orders to a subscriber channel. Unsubscribe does not
// wait for an in-flight delivery callback, so send and close must agree on
// whether the channel is still open.
type sink struct {
	mu     sync.Mutex
	ch     chan *order.Order
	closed bool
}

func newSink() *sink {
	return &sink{ch: make(chan *order.Order, subscriberBuffer)}
}

// send reports false when the sink is closed or the subscriber is too slow.
func (s *sink) send(o *order.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- o:
		return true
	default:
		return false
	}
}

func (s *sink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

var _ OrderStream = (*NATSStream)(nil)
var _ order.Publisher = (*NATSStream)(nil)
