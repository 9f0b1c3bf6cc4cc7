package health

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

// Status values reported by the health endpoints.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusUp        = "up"
	StatusDown      = "down"
)

// Checker reports whether a dependency is usable.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) error

// Ping calls f.
func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// RouteChecker verifies that the API serves the given paths.
type RouteChecker struct {
	api   huma.API
	paths []string
}

// NewRouteChecker creates a checker over the registered OpenAPI paths of api.
func NewRouteChecker(api huma.API, paths ...string) *RouteChecker {
	return &RouteChecker{api: api, paths: paths}
}

// Ping fails when any expected path has no registered operation.
func (r *RouteChecker) Ping(_ context.Context) error {
	registered := r.api.OpenAPI().Paths

	for _, path := range r.paths {
		if _, ok := registered[path]; !ok {
			return fmt.Errorf("route %s is not registered", path)
		}
	}

	return nil
}

// Handler handles health check operations.
type Handler struct {
	components map[string]Checker
	started    time.Time
	timeout    time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithComponent adds a named dependency to every health check.
func WithComponent(name string, checker Checker) Option {
	return func(h *Handler) {
		h.components[name] = checker
	}
}

// WithStartTime overrides the time uptime is measured from.
func WithStartTime(t time.Time) Option {
	return func(h *Handler) {
		h.started = t
	}
}

// NewHandler creates a new health handler.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		components: make(map[string]Checker),
		started:    time.Now(),
		timeout:    2 * time.Second,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status     string            `doc:"healthy when every component is up" example:"healthy" json:"status"`
		Uptime     string            `doc:"Time since the service started"     example:"1h2m3s"  json:"uptime"`
		Components map[string]string `doc:"Per-component status"                                  json:"components"`
	}
}

// StatusResponse is the bare overall status.
type StatusResponse struct {
	Body string
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	status, components := h.evaluate(ctx)

	resp := &Response{}
	resp.Body.Status = status
	resp.Body.Uptime = time.Since(h.started).Round(time.Second).String()
	resp.Body.Components = components

	return resp, nil
}

// Status reports only the overall status.
func (h *Handler) Status(ctx context.Context, _ *struct{}) (*StatusResponse, error) {
	status, _ := h.evaluate(ctx)

	return &StatusResponse{Body: status}, nil
}

func (h *Handler) evaluate(ctx context.Context) (string, map[string]string) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := StatusHealthy
	components := make(map[string]string, len(h.components))

	for name, checker := range h.components {
		if err := checker.Ping(ctx); err != nil {
			components[name] = StatusDown
			status = StatusUnhealthy

			continue
		}

		components[name] = StatusUp
	}

	return status, components
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check, func(o *huma.Operation) {
		o.OperationID = "get-health"
		o.Summary = "Service and component health"
		o.Tags = []string{"Service"}
	})
	huma.Get(api, "/health/status", h.Status, func(o *huma.Operation) {
		o.OperationID = "get-health-status"
		o.Summary = "Overall health status"
		o.Tags = []string{"Service"}
	})
}
