package order

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/EduardKrecmer/pizzeria-web/cart"
)

var (
	tracer = otel.Tracer("order")
	meter  = otel.Meter("order")
)

// Store persists orders and assigns their numeric ids. List returns
// all stored orders, newest first.
type Store interface {
	Save(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (*Order, bool, error)
	List(ctx context.Context) ([]Order, error)
}

// Notifier sends the confirmation emails for a placed order. It must
// not fail the order: delivery problems are its own business.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *Order)
}

// Publisher announces placed orders to live listeners.
type Publisher interface {
	Publish(ctx context.Context, o *Order) error
}

// Service runs the submission pipeline. The primary store is tried
// first; when it fails the order falls back to the in-memory store so
// a database outage never loses an order.
type Service struct {
	primary      Store
	fallback     Store
	notifier     Notifier
	publisher    Publisher
	orderCounter metric.Int64Counter
	orderValue   metric.Float64Histogram
}

func NewService(primary, fallback Store, notifier Notifier, publisher Publisher) (*Service, error) {
	ctx := context.Background()

	orderCounter, err := meter.Int64Counter(
		"order.placed.count",
		metric.WithDescription("Number of orders accepted"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create order counter", slog.Any("err", err))
		return nil, err
	}

	orderValue, err := meter.Float64Histogram(
		"order.placed.total",
		metric.WithDescription("Total amount of accepted orders"),
		metric.WithUnit("EUR"),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create order value histogram", slog.Any("err", err))
		return nil, err
	}

	return &Service{
		primary:      primary,
		fallback:     fallback,
		notifier:     notifier,
		publisher:    publisher,
		orderCounter: orderCounter,
		orderValue:   orderValue,
	}, nil
}

// Submit validates, reprices, persists and announces a new order. The
// returned order carries the store-assigned id. Email delivery and the
// live announcement are best effort and never fail the submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Order, error) {
	ctx, span := tracer.Start(ctx, "Service.Submit", trace.WithAttributes(
		attribute.String("order.delivery-type", string(sub.DeliveryType)),
		attribute.Int("order.item-count", len(sub.Items)),
	))
	defer span.End()

	if err := Validate(sub); err != nil {
		slog.InfoContext(ctx, "rejected order submission", slog.Any("fields", err.Fields))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c := cart.FromItems(sub.Items)
	o := &Order{
		CustomerName:       sub.CustomerName,
		CustomerEmail:      sub.CustomerEmail,
		CustomerPhone:      sub.CustomerPhone,
		DeliveryAddress:    sub.DeliveryAddress,
		DeliveryCity:       sub.DeliveryCity,
		DeliveryCityPart:   sub.DeliveryCityPart,
		DeliveryPostalCode: sub.DeliveryPostalCode,
		DeliveryType:       sub.DeliveryType,
		DeliveryFee:        c.DeliveryFee(sub.DeliveryType),
		Notes:              sub.Notes,
		Items:              sub.Items,
		TotalAmount:        c.Total(sub.DeliveryType),
		Status:             StatusPending,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.persist(ctx, o); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	slog.InfoContext(ctx, "order accepted",
		slog.Int64("order-id", o.ID),
		slog.String("delivery-type", string(o.DeliveryType)),
		slog.Float64("total", o.TotalAmount),
	)
	span.SetAttributes(attribute.Int64("order.id", o.ID))
	s.orderCounter.Add(ctx, 1)
	s.orderValue.Record(ctx, o.TotalAmount)

	// Blocks until both customer and restaurant sends settle, so the
	// handler can report their outcome.
	s.notifier.OrderPlaced(ctx, o)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, o); err != nil {
			slog.WarnContext(ctx, "failed to announce order", slog.Any("err", err))
		}
	}

	return o, nil
}

func (s *Service) persist(ctx context.Context, o *Order) error {
	ctx, span := tracer.Start(ctx, "Service.persist")
	defer span.End()

	err := s.primary.Save(ctx, o)
	if err == nil {
		return nil
	}
	slog.ErrorContext(ctx, "primary store failed, falling back", slog.Any("err", err))
	span.RecordError(err)

	if s.fallback == nil || s.fallback == s.primary {
		return err
	}
	if err := s.fallback.Save(ctx, o); err != nil {
		slog.ErrorContext(ctx, "fallback store failed", slog.Any("err", err))
		return err
	}
	return nil
}

// Get fetches an order by id, consulting the fallback store when the
// primary does not know it.
func (s *Service) Get(ctx context.Context, id int64) (*Order, bool, error) {
	ctx, span := tracer.Start(ctx, "Service.Get")
	defer span.End()

	o, ok, err := s.primary.Get(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "primary store lookup failed", slog.Any("err", err))
	}
	if ok {
		return o, true, nil
	}
	if s.fallback == nil || s.fallback == s.primary {
		return nil, false, err
	}
	return s.fallback.Get(ctx, id)
}

// List returns the stored orders newest first, so the kitchen view can
// backfill before live announcements start streaming in.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	ctx, span := tracer.Start(ctx, "Service.List")
	defer span.End()

	orders, err := s.primary.List(ctx)
	if err == nil {
		return orders, nil
	}
	slog.ErrorContext(ctx, "primary store listing failed", slog.Any("err", err))
	span.RecordError(err)

	if s.fallback == nil || s.fallback == s.primary {
		return nil, err
	}
	return s.fallback.List(ctx)
}
