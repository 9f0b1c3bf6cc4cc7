package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortly-go/internal/analytics"
	analyticsstore "github.com/serroba/shortly-go/internal/analytics/store"
	"github.com/serroba/shortly-go/internal/messaging"
	"go.uber.org/zap"
)

// consumerGroupName is the redis stream consumer group shared by analytics consumers.
const consumerGroupName = "analytics"

// RedisClient owns the connection used by streams and health checks.
type RedisClient struct {
	*redis.Client
}

// Shutdown closes the connection pool.
func (r *RedisClient) Shutdown() error {
	return r.Close()
}

// RedisPackage provides a redis client for opts.RedisAddr. Only register it
// when an address is configured.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// inProcessBus is the gochannel pub/sub used when no redis address is set.
type inProcessBus struct {
	*gochannel.GoChannel
}

// PubSubPackage provides the analytics publisher and subscriber: redis streams
// when a redis address is configured, an in-process channel otherwise.
func PubSubPackage(i *do.Injector) {
	opts := do.MustInvoke[*Options](i)

	if opts.RedisAddr == "" {
		do.Provide(i, func(i *do.Injector) (*inProcessBus, error) {
			logger := do.MustInvoke[*zap.Logger](i)

			return &inProcessBus{GoChannel: gochannel.NewGoChannel(
				gochannel.Config{OutputChannelBuffer: 256},
				messaging.NewZapLoggerAdapter(logger),
			)}, nil
		})
		do.Provide(i, func(i *do.Injector) (message.Publisher, error) {
			return do.MustInvoke[*inProcessBus](i), nil
		})
		do.Provide(i, func(i *do.Injector) (message.Subscriber, error) {
			return do.MustInvoke[*inProcessBus](i), nil
		})

		return
	}

	do.Provide(i, func(i *do.Injector) (message.Publisher, error) {
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client.Client},
			messaging.NewZapLoggerAdapter(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create redis stream publisher: %w", err)
		}

		return publisher, nil
	})
	do.Provide(i, func(i *do.Injector) (message.Subscriber, error) {
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client.Client,
				ConsumerGroup: consumerGroupName,
			},
			messaging.NewZapLoggerAdapter(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create redis stream subscriber: %w", err)
		}

		return subscriber, nil
	})
}

// PublisherGroupPackage provides the publisher group and the typed analytics
// publish functions.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		return messaging.NewPublisherGroup(do.MustInvoke[message.Publisher](i)), nil
	})
	do.Provide(i, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkCreatedEvent](group.Publisher(), analytics.TopicLinkCreated), nil
	})
	do.Provide(i, func(i *do.Injector) (messaging.Publish[analytics.LinkResolvedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkResolvedEvent](group.Publisher(), analytics.TopicLinkResolved), nil
	})
}

// AnalyticsStorePackage provides where consumed events end up: Postgres when
// databaseURL is set, the log otherwise.
func AnalyticsStorePackage(i *do.Injector, databaseURL string) {
	do.Provide(i, func(i *do.Injector) (analytics.Store, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		if databaseURL == "" {
			return analyticsstore.NewNoop(logger), nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		pg := analyticsstore.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()

			return nil, err
		}

		logger.Info("analytics events stored in postgres")

		return pg, nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		return analytics.NewConsumerGroup(
			do.MustInvoke[message.Subscriber](i),
			do.MustInvoke[analytics.Store](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
