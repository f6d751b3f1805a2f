package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	healthgo "github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"

	"github.com/EduardKrecmer/pizzeria-web/catalog"
	"github.com/EduardKrecmer/pizzeria-web/mail"
	"github.com/EduardKrecmer/pizzeria-web/order"
	"github.com/EduardKrecmer/pizzeria-web/pubsub"
	"github.com/EduardKrecmer/pizzeria-web/store"
	"github.com/EduardKrecmer/pizzeria-web/telemetry"
)

// @title		Pizzeria API
// @version		1.0
// @host		localhost:8080
// @BasePath	/
func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()
	retcode := 0
	defer func() {
		os.Exit(retcode)
	}()

	slog.InfoContext(ctx, "Launching pizzeria-api")

	slog.InfoContext(ctx, "Loading config")
	settings, err := LoadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", slog.Any("err", err))
		retcode = 1
		return
	}

	slog.InfoContext(ctx, "Setting up opentelemetry")
	otelShutdown, err := telemetry.SetupOTelSDK(ctx, settings.App, settings.OpenTelemetry)
	if err != nil {
		slog.Error("failed to setup telemetry", slog.Any("err", err))
		retcode = 1
		return
	}

	defer func() {
		err = errors.Join(err, otelShutdown(context.Background()))
		if err != nil {
			slog.ErrorContext(
				ctx,
				"failed to shutdown opentelemetry providers",
				slog.Any("err", err),
			)
			retcode = 1
		}
	}()

	slog.InfoContext(ctx, "Loading catalog")
	cat, err := catalog.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load catalog", slog.Any("err", err))
		retcode = 1
		return
	}

	healthOptions := []healthgo.Option{
		healthgo.WithComponent(healthgo.Component{
			Name:    settings.App.Name,
			Version: settings.App.Version,
		}),
		healthgo.WithChecks(healthgo.Config{
			Name: "smtp-config",
			Check: func(context.Context) error {
				if settings.Mail.Host == "" || settings.Mail.Username == "" || settings.Mail.Password == "" {
					return errors.New("SMTP credentials are not configured")
				}
				return nil
			},
		}),
	}

	memory := store.NewMemory()
	var primary order.Store = memory
	var fallback order.Store
	if settings.Database.Enabled {
		slog.InfoContext(ctx, "Connecting to postgres")
		pg, err := store.NewPostgres(settings.Database.DSN)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to postgres", slog.Any("err", err))
			retcode = 1
			return
		}
		primary = pg
		fallback = memory
		healthOptions = append(healthOptions, healthgo.WithChecks(healthgo.Config{
			Name:  "postgres",
			Check: pg.Ping,
		}))
	}

	slog.InfoContext(ctx, "Setting up mail dispatcher")
	dispatcher, err := mail.NewDispatcher(
		settings.Mail.Transport(),
		mail.WithAttemptTimeout(time.Duration(settings.Mail.AttemptTimeoutInSeconds)*time.Second),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create mail dispatcher", slog.Any("err", err))
		retcode = 1
		return
	}
	notifier := mail.NewNotifier(settings.Mail, dispatcher)

	var stream pubsub.OrderStream = pubsub.NewBroker()
	if settings.Nats.Enabled {
		slog.InfoContext(ctx, "Connecting to NATS server")
		nc, err := settings.Nats.Connect()
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to NATS server", slog.Any("err", err))
			retcode = 1
			return
		}
		stream = pubsub.NewNATSStream(nc, settings.Nats.Subject)
		healthOptions = append(healthOptions, healthgo.WithChecks(healthgo.Config{
			Name: "nats",
			Check: func(ctx context.Context) error {
				if !nc.IsConnected() {
					return errors.New("NATS connection is not active")
				}
				return nil
			},
		}))
	}

	orders, err := order.NewService(primary, fallback, notifier, stream)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create order service", slog.Any("err", err))
		retcode = 1
		return
	}

	slog.InfoContext(ctx, "Setting up health checker")
	health, err := healthgo.New(healthOptions...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create health checker", slog.Any("err", err))
		retcode = 1
		return
	}

	errChan := make(chan error)
	server := echo.New()
	server.HideBanner = true

	NewMainHandler(server, settings, cat, orders, stream, dispatcher, health)
	pprof.Register(server)

	go func() {
		slog.InfoContext(ctx, "listening for requests", slog.String("ip", settings.HTTP.IP), slog.String("port", settings.HTTP.Port))
		errChan <- server.Start(fmt.Sprintf("%s:%s", settings.HTTP.IP, settings.HTTP.Port))
	}()

	select {
	case err = <-errChan:
		slog.ErrorContext(ctx, "error when running server", slog.Any("err", err))
		retcode = 1
		return
	case <-ctx.Done():
		// Wait for first Signal arrives
	}

	err = server.Shutdown(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to shutdown gracefully the server", slog.Any("err", err))
	}
}
