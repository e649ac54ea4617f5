package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/catalog"
	"github.com/LavaJover/shvark-acquiring-service/internal/config"
	"github.com/LavaJover/shvark-acquiring-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/filestore"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/redis"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/tinkoff"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.PayConfig
	DB           *gorm.DB
	Registry     *prometheus.Registry
	Metrics      *metrics.PaymentMetrics
	Gateway      *tinkoff.Client
	Publisher    *kafka.DefaultKafkaPublisher
	Redis        *goredis.Client
	Catalog      *catalog.Catalog
	Repositories *Repositories
}

type Repositories struct {
	OrderRepo           domain.OrderRepository
	OutboxRepo          domain.OutboxRepository
	NotificationLogRepo domain.NotificationLogRepository
	SessionStore        domain.SessionStore
	PromoStore          domain.PromoCodeStore
}

// InitializeDependencies opens every external resource named in cfg. Without
// a database DSN orders live in memory, without a redis address so do
// sessions, and without a catalog file the cart is disabled.
func InitializeDependencies(ctx context.Context, cfg *config.PayConfig) (*Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	deps := &Dependencies{
		Config:       cfg,
		Registry:     registry,
		Metrics:      paymentMetrics,
		Gateway:      initGateway(cfg, paymentMetrics),
		Repositories: &Repositories{},
	}

	if err := deps.initOrderStore(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("order store: %w", err)
	}
	if err := deps.initSessionStore(ctx); err != nil {
		deps.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}

	if brokers := cfg.KafkaService.Brokers(); len(brokers) > 0 {
		deps.Publisher = kafka.NewDefaultKafkaPublisher(brokers)
	}

	if cfg.CatalogPath != "" {
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("catalog: %w", err)
		}
		deps.Catalog = c
		deps.Repositories.PromoStore = filestore.NewPromoCodeStore(cfg.PromoPath)
	}

	return deps, nil
}

func initGateway(cfg *config.PayConfig, paymentMetrics *metrics.PaymentMetrics) *tinkoff.Client {
	return tinkoff.NewClient(
		tinkoff.Config{
			BaseURL:     cfg.Gateway.BaseURL,
			TerminalKey: cfg.Gateway.TerminalKey,
			Secret:      cfg.Gateway.Secret,
			Timeout:     cfg.Gateway.Timeout,
		},
		tinkoff.WithObserver(func(endpoint string, d time.Duration, err error) {
			paymentMetrics.ObserveGatewayCall(endpoint, d, domain.ErrorKind(err))
		}),
	)
}

func (d *Dependencies) initOrderStore() error {
	if d.Config.PayDB.Dsn == "" {
		slog.Warn("pay_db.dsn is empty, orders are kept in memory and lost on restart")
		orders := memory.NewOrderRepository()
		d.Repositories.OrderRepo = orders
		d.Repositories.OutboxRepo = orders
		d.Repositories.NotificationLogRepo = memory.NewNotificationLogRepository()
		return nil
	}

	db, err := postgres.Open(d.Config.PayDB.Dsn)
	if err != nil {
		return err
	}
	d.DB = db

	if d.Config.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, d.Config.MigrationsPath); err != nil {
			return err
		}
	} else if err := postgres.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to auto-migrate db: %w", err)
	}

	d.Repositories.OrderRepo = repository.NewDefaultOrderRepository(db)
	d.Repositories.OutboxRepo = repository.NewDefaultOutboxRepository(db)
	d.Repositories.NotificationLogRepo = repository.NewDefaultNotificationLogRepository(db)
	return nil
}

func (d *Dependencies) initSessionStore(ctx context.Context) error {
	if d.Config.Redis.Addr == "" {
		d.Repositories.SessionStore = memory.NewSessionStore(d.Config.Redis.SessionTTL)
		return nil
	}
	client, err := redis.Connect(ctx, d.Config.Redis.Addr, d.Config.Redis.Password, d.Config.Redis.DB)
	if err != nil {
		return err
	}
	d.Redis = client
	d.Repositories.SessionStore = redis.NewSessionStore(client, d.Config.Redis.SessionTTL)
	return nil
}

func (d *Dependencies) Close() error {
	var errs []error
	if d.Publisher != nil {
		errs = append(errs, d.Publisher.Close())
	}
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

// HealthChecks lists reachability checks for the health service.
func (d *Dependencies) HealthChecks() map[string]grpcapi.Checker {
	checks := make(map[string]grpcapi.Checker)
	if d.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := d.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
