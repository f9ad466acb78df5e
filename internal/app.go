package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/2beens/gymtrainer/internal/cache"
	"github.com/2beens/gymtrainer/internal/config"
	"github.com/2beens/gymtrainer/internal/db"
	"github.com/2beens/gymtrainer/internal/gymstats/catalog"
	"github.com/2beens/gymtrainer/internal/gymstats/events"
	"github.com/2beens/gymtrainer/internal/telemetry/metrics"
	"github.com/2beens/gymtrainer/internal/telemetry/tracing"
	"github.com/2beens/gymtrainer/internal/trainer"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const ServiceName = "gymtrainer"

// App owns everything a training day needs: the catalog, its cache and database,
// telemetry, and the optional status api.
type App struct {
	cfg *config.Config

	provider     catalog.Provider
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	otelShutdown func(ctx context.Context) error

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry

	server *Server
}

type NewAppParams struct {
	Config *config.Config
	// TracesWriter receives the spans of the stdout tracing exporter. Defaults to stderr.
	TracesWriter io.Writer
}

func NewApp(ctx context.Context, params NewAppParams) (_ *App, err error) {
	cfg := params.Config
	if params.TracesWriter == nil {
		params.TracesWriter = os.Stderr
	}

	a := &App{cfg: cfg}
	defer func() {
		if err != nil {
			if closeErr := a.Close(context.Background()); closeErr != nil {
				log.Errorf("close partially built app: %s", closeErr)
			}
		}
	}()

	a.otelShutdown, err = tracing.Setup(tracing.SetupParams{
		Enabled:     cfg.TracingEnabled,
		ServiceName: ServiceName,
		Exporter:    cfg.TracingExporter,
		Writer:      params.TracesWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	var collectors []prometheus.Collector
	if cfg.CatalogSource == config.CatalogSourcePostgres {
		a.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     cfg.PostgresPassword,
			TracingEnabled: cfg.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := a.dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			a.dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	a.promRegistry = metrics.SetupPrometheus(collectors...)
	a.metricsManager = metrics.NewManager(ServiceName, "trainer", a.promRegistry)
	a.metricsManager.GaugeLifeSignal.Set(0)

	catalogCache, err := a.setupCache(ctx)
	if err != nil {
		return nil, err
	}

	switch cfg.CatalogSource {
	case config.CatalogSourceFile:
		a.provider, err = catalog.NewFileProvider(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog file: %w", err)
		}
	case config.CatalogSourcePostgres:
		a.provider = catalog.NewRepo(a.dbPool)
	default:
		return nil, fmt.Errorf("unknown catalog source: %s", cfg.CatalogSource)
	}

	if catalogCache != nil {
		a.provider = catalog.NewCachedProvider(catalog.CachedProviderParams{
			Provider: a.provider,
			Cache:    catalogCache,
			TTL:      cfg.CacheTTL(),
			Metrics:  a.metricsManager,
		})
	}

	return a, nil
}

func (a *App) setupCache(ctx context.Context) (cache.Cache, error) {
	switch a.cfg.CacheBackend {
	case config.CacheBackendFreecache:
		log.Debugf("catalog cache: freecache, %d MB", a.cfg.CacheSizeMB)
		return cache.NewFreecache(a.cfg.CacheSizeMB), nil
	case config.CacheBackendRedis:
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(a.cfg.RedisHost, a.cfg.RedisPort),
			Password: a.cfg.RedisPassword,
			DB:       0, // use default DB
		})
		if a.cfg.TracingEnabled {
			a.redisClient.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := a.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		return cache.NewRedis(a.redisClient, ServiceName+"::"), nil
	default:
		log.Debugln("catalog cache disabled")
		return nil, nil
	}
}

func (a *App) Provider() catalog.Provider {
	return a.provider
}

func (a *App) Metrics() *metrics.Manager {
	return a.metricsManager
}

// LoadDay returns the configured plan's day, its first day when dayID is empty.
func (a *App) LoadDay(ctx context.Context, dayID string) (catalog.TrainingDay, error) {
	if dayID != "" {
		day, err := a.provider.GetDay(ctx, a.cfg.PlanID, dayID)
		if err != nil {
			return catalog.TrainingDay{}, fmt.Errorf("load day [%s/%s]: %w", a.cfg.PlanID, dayID, err)
		}
		return *day, nil
	}

	plan, err := a.provider.GetPlan(ctx, a.cfg.PlanID)
	if err != nil {
		return catalog.TrainingDay{}, fmt.Errorf("load plan [%s]: %w", a.cfg.PlanID, err)
	}
	if len(plan.Days) == 0 {
		return catalog.TrainingDay{}, fmt.Errorf("plan [%s] has no days: %w", a.cfg.PlanID, catalog.ErrNotFound)
	}
	return plan.Days[0], nil
}

// NewConsole builds the console for the day, with a real ticker driving the rests.
func (a *App) NewConsole(day catalog.TrainingDay, out io.Writer) *trainer.Console {
	return trainer.NewConsole(trainer.ConsoleParams{
		Day:          day,
		Journal:      events.NewJournal(events.JournalParams{}),
		TickInterval: a.cfg.TickInterval(),
		Metrics:      a.metricsManager,
		Out:          out,
	})
}

// ServeStatus starts the status api over the console's day, when enabled in the config.
func (a *App) ServeStatus(console *trainer.Console) {
	if !a.cfg.StatusEnabled {
		log.Debugln("status api disabled")
		return
	}

	params := NewServerParams{
		Selector:        console.Selector(),
		Journal:         console.Journal(),
		AllowedOrigins:  a.cfg.StatusAllowedOrigins,
		RateLimitPerMin: a.cfg.StatusRateLimitPerMin,
		MetricsManager:  a.metricsManager,
		PromRegistry:    a.promRegistry,
	}
	if a.redisClient != nil {
		params.RateLimiter = redis_rate.NewLimiter(a.redisClient)
	}

	a.server = NewServer(params)
	a.server.Serve(a.cfg.Host, a.cfg.Port, a.cfg.PrometheusMetricsHost, a.cfg.PrometheusMetricsPort)
}

// Close stops the status api and releases the catalog connections. All steps run,
// their errors are combined.
func (a *App) Close(ctx context.Context) error {
	var err error
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if a.server != nil {
		err = multierr.Append(err, a.server.GracefulShutdown(ctx))
	}
	if a.redisClient != nil {
		if closeErr := a.redisClient.Close(); closeErr != nil && !errors.Is(closeErr, redis.ErrClosed) {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}
	if a.dbPool != nil {
		log.Debugln("closing db pool ...")
		a.dbPool.Close()
	}
	if a.otelShutdown != nil {
		if shutdownErr := a.otelShutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown tracing: %w", shutdownErr))
		}
	}
	return err
}
