package di

import (
	"context"
	"fmt"
	"time"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/handler/api"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/handler/ws"
	internalrepo "github.com/Dheeraj-Sharma-gif/WeFn/internal/repository"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/service/auth"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/service/probe"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/service/remote"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/usecase"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/cache"
	pkgch "github.com/Dheeraj-Sharma-gif/WeFn/pkg/clickhouse"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/config"
	xhttp "github.com/Dheeraj-Sharma-gif/WeFn/pkg/http"
	pkgkafka "github.com/Dheeraj-Sharma-gif/WeFn/pkg/kafka"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/metrics"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRedis creates the Redis client used by the persistence
// repositories and, optionally, the probe cache.
func ProvideRedis(cfg *config.Config) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout),
		cache.WithRedisPrefix("wefn:probe"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return rc, nil
}

// ProvideProbeCache selects the probe cache backend.
func ProvideProbeCache(cfg *config.Config, rc *cache.RedisCache) cache.BytesCache {
	if cfg.Probe.CacheBackend == "redis" {
		return rc
	}
	return cache.NewMemoryCache(
		cache.WithMemoryMaxSize(1024),
		cache.WithMemoryCleanup(time.Minute),
	)
}

// ProvideClickHouse creates the ClickHouse client when enabled.
func ProvideClickHouse(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}
	return client, nil
}

// ProvideHistory creates the poll history store when ClickHouse is up.
func ProvideHistory(ch *pkgch.Client) (repository.History, error) {
	if ch == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	h, err := internalrepo.NewClickHouseHistory(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("poll history: %w", err)
	}
	return h, nil
}

// ProvideKafkaProducer creates the Kafka producer when enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEvents creates the widget event publisher.
func ProvideEvents(producer *pkgkafka.Producer, cfg *config.Config) repository.Events {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaEvents(producer, cfg.Kafka.Topic)
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideFetcher creates the endpoint probe.
func ProvideFetcher(cfg *config.Config, probeCache cache.BytesCache, l *logger.Logger) repository.Fetcher {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Probe.FetchTimeout))
	return probe.New(client, probeCache, cfg.Probe.CacheTTL, l)
}

// ProvideTester creates the authoring tester.
func ProvideTester(fetcher repository.Fetcher) *usecase.Tester {
	return usecase.NewTester(fetcher)
}

// ProvideStore creates the in-memory widget and layout store.
func ProvideStore() *usecase.Store {
	return usecase.NewStore()
}

// ProvideHub creates the WebSocket fan-out hub.
func ProvideHub(l *logger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideScheduler creates the polling scheduler.
func ProvideScheduler(
	fetcher repository.Fetcher,
	store *usecase.Store,
	m repository.Metrics,
	l *logger.Logger,
	hub *ws.Hub,
	history repository.History,
	events repository.Events,
) *usecase.Scheduler {
	return usecase.NewScheduler(fetcher, store, m, l, hub, history, events)
}

// ProvideRemoteStore creates the sync client for the remote
// persistence surface.
func ProvideRemoteStore(cfg *config.Config) repository.RemoteStore {
	if !cfg.Dashboard.Enabled {
		return nil
	}
	return remote.NewClient(
		cfg.Dashboard.Remote.BaseURL,
		cfg.Dashboard.Remote.Token,
		cfg.Dashboard.Remote.Timeout,
	)
}

// ProvideDashboard creates the dashboard engine when enabled.
func ProvideDashboard(
	cfg *config.Config,
	store *usecase.Store,
	sched *usecase.Scheduler,
	remoteStore repository.RemoteStore,
	tester *usecase.Tester,
	m repository.Metrics,
	l *logger.Logger,
	events repository.Events,
) *usecase.Dashboard {
	if !cfg.Dashboard.Enabled {
		return nil
	}
	vp := models.Viewport{
		Width:  cfg.Dashboard.Viewport.Width,
		Height: cfg.Dashboard.Viewport.Height,
	}
	return usecase.NewDashboard(store, sched, remoteStore, tester, m, l, events, vp)
}

// ProvideWidgetRepository creates the Redis widget repository.
func ProvideWidgetRepository(rc *cache.RedisCache) repository.WidgetRepository {
	return internalrepo.NewRedisWidgetRepository(rc.Client())
}

// ProvideUserRepository creates the Redis user repository.
func ProvideUserRepository(rc *cache.RedisCache) repository.UserRepository {
	return internalrepo.NewRedisUserRepository(rc.Client())
}

// ProvideSessionRepository creates the Redis session repository.
func ProvideSessionRepository(rc *cache.RedisCache) repository.SessionRepository {
	return internalrepo.NewRedisSessionRepository(rc.Client())
}

// ProvideAuthService creates the session service.
func ProvideAuthService(
	cfg *config.Config,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	l *logger.Logger,
) *auth.Service {
	return auth.NewService(users, sessions, cfg.Auth.SessionTTL, cfg.Auth.MaxSessions, cfg.Auth.BcryptCost, l)
}

// ProvideHandlers assembles every route group.
func ProvideHandlers(
	l *logger.Logger,
	authSvc *auth.Service,
	widgets repository.WidgetRepository,
	tester *usecase.Tester,
	engine *usecase.Dashboard,
	hub *ws.Hub,
) []xhttp.Handler {
	authh := api.NewAuthHandler(l, authSvc)
	handlers := []xhttp.Handler{
		authh,
		api.NewWidgetsHandler(l, widgets, tester, authh),
		hub,
	}
	if engine != nil {
		handlers = append(handlers, api.NewDashboardHandler(l, engine))
	}
	return handlers
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handlers []xhttp.Handler,
	engine *usecase.Dashboard,
	sched *usecase.Scheduler,
	hub *ws.Hub,
	rc *cache.RedisCache,
	probeCache cache.BytesCache,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, handlers, engine, sched, hub, rc, probeCache, ch, producer)
}
