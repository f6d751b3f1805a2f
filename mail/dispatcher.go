package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/gomail.v2"
)

var (
	tracer = otel.Tracer("mail")
	meter  = otel.Meter("mail")
)

const defaultAttemptTimeout = 15 * time.Second

// Report is the outcome of one Send call across all its attempts.
type Report struct {
	Success   bool
	MessageID string
	Attempts  int
	Err       error
}

// Dispatcher sends messages with retries. Every attempt dials a fresh
// SMTP connection through the factory and is cut off after the attempt
// timeout, so a hung server costs one attempt, not the whole send.
type Dispatcher struct {
	factory        TransportFactory
	attemptTimeout time.Duration
	newBackOff     func() backoff.BackOff
	sendCounter    metric.Int64Counter
	sendDuration   metric.Float64Histogram
	failCounter    metric.Int64Counter
}

type DispatcherOption func(*Dispatcher)

func WithAttemptTimeout(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) { dp.attemptTimeout = d }
}

// WithBackOff overrides the wait strategy between attempts.
func WithBackOff(factory func() backoff.BackOff) DispatcherOption {
	return func(dp *Dispatcher) { dp.newBackOff = factory }
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0.25
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

func NewDispatcher(factory TransportFactory, opts ...DispatcherOption) (*Dispatcher, error) {
	ctx := context.Background()

	sendCounter, err := meter.Int64Counter(
		"mail.send.count",
		metric.WithDescription("Number of email send calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create send counter", slog.Any("err", err))
		return nil, err
	}

	sendDuration, err := meter.Float64Histogram(
		"mail.send.duration",
		metric.WithDescription("Duration of email send calls including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create send histogram", slog.Any("err", err))
		return nil, err
	}

	failCounter, err := meter.Int64Counter(
		"mail.send.failures",
		metric.WithDescription("Number of email sends that exhausted all attempts"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create failure counter", slog.Any("err", err))
		return nil, err
	}

	d := &Dispatcher{
		factory:        factory,
		attemptTimeout: defaultAttemptTimeout,
		newBackOff:     defaultBackOff,
		sendCounter:    sendCounter,
		sendDuration:   sendDuration,
		failCounter:    failCounter,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Send delivers the message, retrying up to maxAttempts times with
// exponential backoff between attempts. It never panics and never
// returns an error: the caller reads the Report and decides what the
// failure means.
func (d *Dispatcher) Send(ctx context.Context, m *gomail.Message, maxAttempts int) Report {
	retryID := uuid.NewString()[:8]
	to := m.GetHeader("To")

	ctx, span := tracer.Start(ctx, "Dispatcher.Send", trace.WithAttributes(
		attribute.Int("mail.max-attempts", maxAttempts),
	))
	defer span.End()

	start := time.Now()
	bo := d.newBackOff()
	report := Report{}

	slog.InfoContext(ctx, "sending email",
		slog.String("retry-id", retryID),
		slog.Any("to", to),
		slog.Int("max-attempts", maxAttempts),
	)

	for report.Attempts < maxAttempts {
		report.Attempts++

		err := d.attempt(ctx, m)
		if err == nil {
			report.Success = true
			report.MessageID = firstHeader(m, "Message-ID")
			report.Err = nil
			slog.InfoContext(ctx, "email sent",
				slog.String("retry-id", retryID),
				slog.String("message-id", report.MessageID),
				slog.Int("attempt", report.Attempts),
			)
			break
		}

		report.Err = err
		slog.WarnContext(ctx, "email attempt failed",
			slog.String("retry-id", retryID),
			slog.Int("attempt", report.Attempts),
			slog.Any("err", err),
		)

		if report.Attempts >= maxAttempts {
			break
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			break
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			// Keep the last transport error alongside the cancellation.
			report.Err = errors.Join(report.Err, ctx.Err())
		}
		if ctx.Err() != nil {
			break
		}
	}

	d.sendCounter.Add(ctx, 1)
	d.sendDuration.Record(ctx, time.Since(start).Seconds())
	if !report.Success {
		d.failCounter.Add(ctx, 1)
		span.RecordError(report.Err)
		span.SetStatus(codes.Error, "all send attempts failed")
		slog.ErrorContext(ctx, "giving up on email",
			slog.String("retry-id", retryID),
			slog.Int("attempts", report.Attempts),
			slog.Any("err", report.Err),
		)
	}
	span.SetAttributes(attribute.Int("mail.attempts", report.Attempts))

	return report
}

// attempt dials and sends over a fresh connection, racing the attempt
// timeout. The goroutine is left to finish on its own when the timer
// wins; gomail has no context hooks to cancel it.
func (d *Dispatcher) attempt(ctx context.Context, m *gomail.Message) error {
	done := make(chan error, 1)

	go func() {
		sc, err := d.factory()
		if err != nil {
			done <- fmt.Errorf("failed to open smtp transport: %w", err)
			return
		}
		defer sc.Close()
		done <- gomail.Send(sc, m)
	}()

	timer := time.NewTimer(d.attemptTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("send attempt timed out after %s", d.attemptTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func firstHeader(m *gomail.Message, key string) string {
	if vs := m.GetHeader(key); len(vs) > 0 {
		return vs[0]
	}
	return ""
}
