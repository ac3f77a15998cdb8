package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"

	catalogcache "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/adapters/cache"
	catalogfailover "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/adapters/failover"
	catalogmemory "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/adapters/memory"
	catalogrelational "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/adapters/persistence/relational"
	catalogports "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
	ordersfailover "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/failover"
	ordersmemory "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/memory"
	ordersrelational "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/persistence/relational"
	ordersports "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/database"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/migrations"
)

var errDatabaseDisabled = errors.New("database disabled via DB_DISABLED")

// Stores are the failover repositories of both domains plus the connections behind them.
type Stores struct {
	Orders  *ordersfailover.Repository
	Catalog *catalogfailover.Repository

	db    *gorm.DB
	redis *redis.Client
}

// OpenStores decides the storage mode once: it connects with retry, applies migrations when
// configured, and binds both routers. Any failure leaves them on the in-memory mirrors.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger, meter metric.Meter) *Stores {
	s := &Stores{
		Orders:  ordersfailover.New(ordersmemory.NewRepository(), logger, meter),
		Catalog: catalogfailover.New(catalogmemory.NewRepository(), logger, meter),
	}

	db, err := s.connect(ctx, cfg, logger)
	if err == nil {
		s.db = db
	}
	s.Orders.Router().Initialize(func() (ordersports.Repository, error) {
		if err != nil {
			return nil, err
		}
		return ordersrelational.NewRepository(db), nil
	})
	s.Catalog.Router().Initialize(func() (catalogports.Repository, error) {
		if err != nil {
			return nil, err
		}
		return s.catalogDurable(ctx, cfg, db, logger), nil
	})
	return s
}

// DurableOrders is the relational orders repository without a volatile mirror. A failed call
// surfaces to the caller instead of landing in process-local memory.
type DurableOrders struct {
	ordersports.Repository
	db *gorm.DB
}

// OpenDurableOrders connects like OpenStores but fails instead of falling back to memory.
func OpenDurableOrders(ctx context.Context, cfg Config, logger *slog.Logger) (*DurableOrders, error) {
	db, err := (&Stores{}).connect(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("orders store: %w", err)
	}
	logger.Info("orders bound to durable backend without fallback")
	return &DurableOrders{Repository: ordersrelational.NewRepository(db), db: db}, nil
}

func (d *DurableOrders) Close() {
	closeGorm(d.db)
}

func (s *Stores) connect(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.DBDisabled {
		return nil, errDatabaseDisabled
	}
	dbCfg := cfg.Database()
	if err := dbCfg.RegisterTLS(); err != nil {
		return nil, err
	}
	db, err := database.ConnectWithRetry(ctx, dbCfg, cfg.DBConnectAttempts, cfg.DBConnectDelay, logger)
	if err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart {
		if err := migrations.Run(dbCfg); err != nil {
			closeGorm(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrations applied", slog.String("driver", string(dbCfg.Driver)))
	}
	return db, nil
}

// catalogDurable puts the Redis read-through cache in front of the relational catalog when
// REDIS_ADDR is set and reachable.
func (s *Stores) catalogDurable(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) catalogports.Repository {
	var repo catalogports.Repository = catalogrelational.NewRepository(db)
	if cfg.RedisAddr == "" || cfg.CatalogCacheTTL == 0 {
		return repo
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, catalog cache disabled", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		_ = rdb.Close()
		return repo
	}
	s.redis = rdb
	logger.Info("catalog cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.CatalogCacheTTL))
	return catalogcache.NewRepository(repo, rdb, cfg.CatalogCacheTTL, logger)
}

// Durable reports whether orders are persisted in the relational store.
func (s *Stores) Durable() bool {
	return s.db != nil
}

func (s *Stores) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		closeGorm(s.db)
	}
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
