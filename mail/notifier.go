package mail

import (
	"context"
	"log/slog"
	"sync"

	"github.com/EduardKrecmer/pizzeria-web/order"
)

// Notifier sends both order emails concurrently and waits for both to
// settle. Failures are logged and counted but never propagate: the
// order is already persisted by the time the emails go out.
type Notifier struct {
	settings   Settings
	dispatcher *Dispatcher
}

func NewNotifier(settings Settings, dispatcher *Dispatcher) *Notifier {
	return &Notifier{settings: settings, dispatcher: dispatcher}
}

func (n *Notifier) OrderPlaced(ctx context.Context, o *order.Order) {
	var wg sync.WaitGroup

	if o.CustomerEmail != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.sendCustomer(ctx, o)
		}()
	} else {
		slog.InfoContext(ctx, "order has no customer email, skipping confirmation",
			slog.Int64("order-id", o.ID),
		)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		n.sendRestaurant(ctx, o)
	}()

	wg.Wait()
}

func (n *Notifier) sendCustomer(ctx context.Context, o *order.Order) {
	m, err := CustomerConfirmation(n.settings, o)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build customer confirmation",
			slog.Int64("order-id", o.ID), slog.Any("err", err))
		return
	}

	report := n.dispatcher.Send(ctx, m, n.settings.CustomerAttempts)
	if !report.Success {
		slog.ErrorContext(ctx, "customer confirmation not delivered",
			slog.Int64("order-id", o.ID),
			slog.Int("attempts", report.Attempts),
			slog.Any("err", report.Err),
		)
	}
}

func (n *Notifier) sendRestaurant(ctx context.Context, o *order.Order) {
	m, err := RestaurantNotification(n.settings, o)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build restaurant notification",
			slog.Int64("order-id", o.ID), slog.Any("err", err))
		return
	}

	report := n.dispatcher.Send(ctx, m, n.settings.RestaurantAttempts)
	if !report.Success {
		slog.ErrorContext(ctx, "restaurant notification not delivered",
			slog.Int64("order-id", o.ID),
			slog.Int("attempts", report.Attempts),
			slog.Any("err", report.Err),
		)
	}
}

var _ order.Notifier = (*Notifier)(nil)
