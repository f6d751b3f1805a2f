package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	healthgo "github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/EduardKrecmer/pizzeria-web/catalog"
	"github.com/EduardKrecmer/pizzeria-web/delivery"
	"github.com/EduardKrecmer/pizzeria-web/mail"
	"github.com/EduardKrecmer/pizzeria-web/order"
	"github.com/EduardKrecmer/pizzeria-web/pubsub"
)

var tracer = otel.Tracer("pizzeria-api")

type MainHandler struct {
	catalog      *catalog.Store
	orders       *order.Service
	stream       pubsub.OrderStream
	dispatcher   *mail.Dispatcher
	mailSettings mail.Settings
	health       *healthgo.Health
}

func NewMainHandler(
	e *echo.Echo,
	settings *Settings,
	cat *catalog.Store,
	orders *order.Service,
	stream pubsub.OrderStream,
	dispatcher *mail.Dispatcher,
	health *healthgo.Health,
) *MainHandler {
	logger := slog.Default()
	e.HideBanner = true
	// Detailed error bodies are for development only.
	e.Debug = settings.App.Env == "development"
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: settings.HTTP.CORS.Origins,
		AllowMethods: settings.HTTP.CORS.Methods,
		AllowHeaders: settings.HTTP.CORS.Headers,
	}))
	e.Use(otelecho.Middleware("pizzeria-api",
		otelecho.WithMetricAttributeFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("client.ip", r.RemoteAddr),
				attribute.String("user.agent", r.UserAgent()),
			}
		}),
		otelecho.WithEchoMetricAttributeFn(func(c echo.Context) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("handler.path", c.Path()),
				attribute.String("handler.method", c.Request().Method),
			}
		}),
	))

	handler := &MainHandler{
		catalog:      cat,
		orders:       orders,
		stream:       stream,
		dispatcher:   dispatcher,
		mailSettings: settings.Mail,
		health:       health,
	}

	e.GET("/healthz", handler.HealthCheck)
	api := e.Group("/api")

	api.GET("/pizzas", handler.ListPizzas)
	api.GET("/pizzas/:id", handler.GetPizza)
	api.GET("/extras", handler.ListExtras)
	api.GET("/delivery-zones", handler.ListDeliveryZones)

	api.POST("/orders", handler.CreateOrder)
	api.GET("/orders", handler.ListOrders)
	api.GET("/orders/:id", handler.GetOrder)
	api.GET("/orders/sse", handler.GetLiveOrdersSSE)

	api.GET("/test-email", handler.SendTestEmail)
	api.GET("/diagnostic/email-config", handler.EmailConfig)

	return handler
}

// ListPizzas godoc
//
// @Summary List pizzas, optionally filtered by tag and search query
// @Tags catalog
// @Produce json
// @Param tag query string false "Exact tag to filter by"
// @Param q query string false "Case-insensitive search in name and description"
// @Success 200 {array} catalog.Pizza
// @Router /api/pizzas [get]
func (h *MainHandler) ListPizzas(c echo.Context) error {
	tag := c.QueryParam("tag")
	query := c.QueryParam("q")
	if tag == "" && query == "" {
		return c.JSON(http.StatusOK, h.catalog.All())
	}
	return c.JSON(http.StatusOK, h.catalog.Filter(tag, query))
}

// GetPizza godoc
//
// @Summary Get a single pizza by id
// @Tags catalog
// @Produce json
// @Success 200 {object} catalog.Pizza
// @Failure 404 {object} map[string]string
// @Router /api/pizzas/{id} [get]
func (h *MainHandler) GetPizza(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid pizza id"})
	}
	p, ok := h.catalog.ByID(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "pizza not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// ListExtras godoc
//
// @Summary List available extra toppings
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Extra
// @Router /api/extras [get]
func (h *MainHandler) ListExtras(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Extras())
}

// ListDeliveryZones godoc
//
// @Summary List served municipalities with postal codes and parts
// @Tags catalog
// @Produce json
// @Success 200 {array} delivery.Zone
// @Router /api/delivery-zones [get]
func (h *MainHandler) ListDeliveryZones(c echo.Context) error {
	return c.JSON(http.StatusOK, delivery.Zones())
}

// CreateOrder godoc
//
// @Summary Submit a new order
// @Tags order
// @Accept json
// @Produce json
// @Param order body NewOrderRequest true "New order"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} map[string]any
// @Router /api/orders [post]
func (h *MainHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req NewOrderRequest
	if err := c.Bind(&req); err != nil {
		slog.ErrorContext(ctx, "failed to bind order request", slog.Any("err", err))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	o, err := h.orders.Submit(ctx, req.toSubmission())
	if err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":  "invalid order",
				"fields": verr.Fields,
			})
		}
		slog.ErrorContext(ctx, "failed to submit order", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save order"})
	}

	return c.JSON(http.StatusCreated, OrderResponse{
		ID:      o.ID,
		Status:  o.Status,
		Created: o.CreatedAt,
	})
}

// ListOrders godoc
//
// @Summary List stored orders, newest first
// @Tags order
// @Produce json
// @Success 200 {array} order.Order
// @Router /api/orders [get]
func (h *MainHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orders.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list orders", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder godoc
//
// @Summary Get a stored order by id
// @Tags order
// @Produce json
// @Success 200 {object} order.Order
// @Failure 404 {object} map[string]string
// @Router /api/orders/{id} [get]
func (h *MainHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
	}

	o, ok, err := h.orders.Get(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load order", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load order"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
	}
	return c.JSON(http.StatusOK, o)
}

// GetLiveOrdersSSE godoc
//
// @Summary Stream accepted orders via Server-Sent Events
// @Tags order
// @Produce text/event-stream
// @Success 200 {object} order.Order
// @Router /api/orders/sse [get]
func (h *MainHandler) GetLiveOrdersSSE(c echo.Context) error {
	ctx := c.Request().Context()
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		slog.ErrorContext(ctx, "streaming unsupported by response writer")
		return echo.NewHTTPError(http.StatusInternalServerError, "Streaming unsupported")
	}

	ch, cancel, err := h.stream.Subscribe(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to subscribe to live orders", slog.Any("err", err))
		return err
	}
	defer cancel()

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "client closed connection")
			return nil
		case o, open := <-ch:
			if !open {
				return nil
			}
			data, err := json.Marshal(o)
			if err != nil {
				slog.ErrorContext(ctx, "failed to marshal order for SSE", slog.Any("err", err))
				continue
			}
			if _, err := c.Response().Writer.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				slog.ErrorContext(ctx, "failed to write SSE event", slog.Any("err", err))
				return err
			}
			flusher.Flush()
		}
	}
}

// SendTestEmail godoc
//
// @Summary Send a test email to verify the SMTP configuration
// @Tags diagnostic
// @Produce json
// @Param email query string true "Recipient address"
// @Success 200 {object} TestEmailResponse
// @Router /api/test-email [get]
func (h *MainHandler) SendTestEmail(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracer.Start(ctx, "MainHandler.SendTestEmail")
	defer span.End()

	to := c.QueryParam("email")
	if to == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing email query parameter"})
	}

	m := mail.TestMessage(h.mailSettings, to)
	report := h.dispatcher.Send(ctx, m, h.mailSettings.CustomerAttempts)

	resp := TestEmailResponse{
		Success:   report.Success,
		MessageID: report.MessageID,
		Attempts:  report.Attempts,
	}
	if report.Err != nil {
		resp.Error = report.Err.Error()
	}
	// The HTTP call succeeded even when SMTP did not; the body carries
	// the verdict.
	return c.JSON(http.StatusOK, resp)
}

// EmailConfig godoc
//
// @Summary Report the SMTP configuration without secrets
// @Tags diagnostic
// @Produce json
// @Success 200 {object} EmailConfigResponse
// @Router /api/diagnostic/email-config [get]
func (h *MainHandler) EmailConfig(c echo.Context) error {
	s := h.mailSettings
	return c.JSON(http.StatusOK, EmailConfigResponse{
		Host:        s.Host,
		Port:        s.Port,
		SSL:         s.SSL,
		UsernameSet: s.Username != "",
		PasswordSet: s.Password != "",
		From:        s.From,
		Restaurant:  s.RestaurantEmail,
	})
}

// HealthCheck godoc
//
// @Summary Check the health of the service
// @Tags health
// @Produce json
// @Success 200 {object} healthgo.Check
// @Failure 503 {object} healthgo.Check
// @Router /healthz [get]
func (h *MainHandler) HealthCheck(c echo.Context) error {
	check := h.health.Measure(c.Request().Context())

	statusCode := http.StatusOK
	if check.Status != healthgo.StatusOK {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, check)
}
