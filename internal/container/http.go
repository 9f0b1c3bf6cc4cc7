package container

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do"
	"github.com/serroba/shortly-go/internal/analytics"
	"github.com/serroba/shortly-go/internal/handlers"
	"github.com/serroba/shortly-go/internal/health"
	"github.com/serroba/shortly-go/internal/messaging"
	"github.com/serroba/shortly-go/internal/metrics"
	"github.com/serroba/shortly-go/internal/middleware"
	"github.com/serroba/shortly-go/internal/shortener"
	"github.com/serroba/shortly-go/internal/store"
	"go.uber.org/zap"
)

// StorePackage provides the in-memory link store.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*store.MemoryStore, error) {
		opts := do.MustInvoke[*Options](i)

		generate, err := shortener.NewIDGenerator(opts.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("invalid code length: %w", err)
		}

		return store.NewMemoryStore(generate, store.WithReservedIDs(handlers.ReservedCodes...)), nil
	})
}

// MetricsPackage provides the Prometheus collectors.
func MetricsPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*metrics.Metrics, error) {
		return metrics.New(do.MustInvoke[*store.MemoryStore](i)), nil
	})
}

// HTTPPackage provides the router and the API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		// Covers plain handlers such as /metrics; API operations recover below.
		router.Use(chimiddleware.Recoverer)

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		collectors := do.MustInvoke[*metrics.Metrics](i)

		api := humachi.New(router, huma.DefaultConfig("Shortly URL Shortener", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestLogger(logger),
			middleware.Recoverer(api, logger),
			middleware.Metrics(collectors),
			middleware.RequestMeta,
		)

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*store.MemoryStore](i),
			opts.PublicBaseURL(),
			opts.LinkTTL(),
			do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.LinkResolvedEvent]](i),
			logger,
		)

		healthOpts := []health.Option{
			health.WithComponent("routes", health.NewRouteChecker(api, "/shorten", "/{code}", "/health")),
		}
		if opts.RedisAddr != "" {
			healthOpts = append(healthOpts,
				health.WithComponent("redis", health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)))
		}

		router.Handle("/metrics", collectors.Handler())
		handlers.RegisterRoutes(api, urlHandler)
		health.RegisterRoutes(api, health.NewHandler(healthOpts...))

		return api, nil
	})
}

// ServerPackages registers everything the HTTP server needs. When no redis
// address is set the analytics consumers run in the same process.
func ServerPackages(i *do.Injector, opts *Options) {
	do.ProvideValue(i, opts)
	LoggerPackage(i)

	if opts.RedisAddr != "" {
		RedisPackage(i)
	}

	PubSubPackage(i)
	PublisherGroupPackage(i)
	StorePackage(i)
	MetricsPackage(i)
	HTTPPackage(i)

	if opts.RedisAddr == "" {
		AnalyticsStorePackage(i, opts.DatabaseURL)
		ConsumerGroupPackage(i)
	}
}
