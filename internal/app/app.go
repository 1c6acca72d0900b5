// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/infrastructure/database/dynamodb"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/infrastructure/objectstore"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
)

// App holds the collaborators shared by the API server and the CLI
type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Storage storage.Storage
	Catalog *catalog.Service
	Rules   cart.PricingRules
	Promos  *cart.PromoBook

	// Redis is set only when the redis storage backend is in use
	Redis *goredis.Client

	closers []func() error
}

// New builds every collaborator from cfg and loads the catalog. A catalog
// that fails to load is logged and served empty.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.Logging)
	return NewWithLogger(ctx, cfg, log)
}

// NewWithLogger is New with a caller-supplied logger
func NewWithLogger(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: log,
		Rules:  cart.RulesFromConfig(cfg.Cart),
		Promos: cart.PromoBookFromConfig(cfg.Cart),
	}

	if err := a.openStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}

	src, err := CatalogSource(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Catalog = catalog.NewService(src, cfg.Catalog.SimulatedDelay, log.WithField("component", "catalog"))
	if err := a.Catalog.Load(ctx); err != nil {
		log.WithError(err).Warn("Serving an empty catalog")
	}

	return a, nil
}

// Close releases backend connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenCart returns the un-namespaced cart persisted under the configured key
func (a *App) OpenCart(ctx context.Context) *cart.Store {
	return cart.Open(ctx, a.Storage, a.Config.Cart.StorageKey, a.Rules, a.Logger.WithField("component", "cart"))
}

// Registry returns a per-session cart registry over the configured storage.
// Sessions leave memory no later than the backend expires their carts.
func (a *App) Registry() *cart.Registry {
	idle := a.Config.Cart.SessionIdle
	if ttl := a.Config.Storage.TTL; ttl > 0 && (idle <= 0 || ttl < idle) {
		idle = ttl
	}
	return cart.NewRegistry(a.Storage, a.Config.Cart.StorageKey, a.Rules, idle, a.Logger.WithField("component", "cart"))
}

func (a *App) openStorage(ctx context.Context) error {
	cfg := a.Config
	log := a.Logger.WithField("backend", cfg.Storage.Backend)

	switch cfg.Storage.Backend {
	case "memory":
		a.Storage = storage.NewMemory()

	case "file":
		fs, err := storage.NewFile(cfg.Storage.FilePath)
		if err != nil {
			return err
		}
		a.Storage = fs

	case "redis":
		client, err := redis.NewConnection(cfg, log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		a.Storage = client
		a.Redis = client.GetClient()

	case "postgres":
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)

		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("Index creation failed")
		}
		a.Storage = postgres.NewStore(db.GetDB())

	case "dynamodb":
		store, err := dynamodb.NewConnection(ctx, cfg)
		if err != nil {
			return err
		}
		a.Storage = store

	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	log.Info("Storage backend ready")
	return nil
}

// CatalogSource picks a fixture source from the configured location:
// s3://bucket/key, an http(s) URL, or a file path
func CatalogSource(ctx context.Context, cfg *config.Config) (catalog.Source, error) {
	location := cfg.Catalog.Source
	switch {
	case strings.HasPrefix(location, "s3://"):
		return objectstore.NewS3Source(ctx, cfg.AWS, location)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return catalog.HTTPSource{URL: location, Client: http.DefaultClient}, nil
	default:
		return catalog.FileSource{Path: location}, nil
	}
}
