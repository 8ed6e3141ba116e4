package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/ragso"
	"github.com/aretw0/ragso/internal/config"
	"github.com/aretw0/ragso/internal/logging"
	"github.com/aretw0/ragso/pkg/adapters/catalog"
	"github.com/aretw0/ragso/pkg/adapters/memory"
	"github.com/aretw0/ragso/pkg/persistence/middleware"
	redisstore "github.com/aretw0/ragso/pkg/adapters/redis"
	"github.com/aretw0/ragso/pkg/ports"
	"github.com/aretw0/ragso/pkg/session"
)

// app holds the components every subcommand wires from the config.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	gateway   *catalog.Gateway
	store     ports.SessionStore
	locker    ports.DistributedLocker
	purchases *memory.PurchaseLog
	closers   []func() error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:       cfg,
		logger:    logging.New(level),
		purchases: memory.NewPurchaseLog(),
	}

	tables, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	warnings, err := catalog.Validate(tables)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	for _, w := range warnings {
		a.logger.Warn("catalog", "warning", w)
	}
	a.gateway = catalog.New(tables)

	switch cfg.StoreDriver {
	case config.DriverRedis:
		rs := redisstore.New(cfg.Redis.Addr, "", 0,
			redisstore.WithPrefix(cfg.Redis.Prefix+"session:"),
			redisstore.WithTTL(cfg.Redis.TTL),
		)
		a.closers = append(a.closers, rs.Close)
		if err := rs.Ping(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		a.store = rs
		a.locker = redisstore.NewLocker(rs.Client(), cfg.Redis.Prefix)
	default:
		a.store = memory.NewStore()
	}

	mws, err := storeMiddlewares(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.store = middleware.Chain(a.store, mws...)

	a.logger.Debug("app ready", "store", cfg.StoreDriver, "catalog", cfg.CatalogPath)
	return a, nil
}

// storeMiddlewares redacts before sealing so masked text is what gets
// encrypted.
func storeMiddlewares(cfg config.Config) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if cfg.RedactPII {
		patterns := cfg.PIIPatterns
		if len(patterns) == 0 {
			patterns = middleware.DefaultPIIPatterns
		}
		mw, err := middleware.NewPIIMiddleware(patterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.Encryption.Enabled() {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    cfg.Encryption.ActiveKey,
			FallbackKeys: cfg.Encryption.FallbackKeys,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

// engine builds a ragso engine over the app components.
func (a *app) engine(opts ...ragso.Option) (*ragso.Engine, error) {
	base := []ragso.Option{
		ragso.WithLogger(a.logger),
		ragso.WithTriggers(a.cfg.SeatTriggers, a.cfg.BookTriggers),
		ragso.WithPurchaseRequester(a.purchases),
		ragso.WithStore(a.store),
	}
	return ragso.New(a.gateway, append(base, opts...)...)
}

// sessions builds a session manager, distributed when the store is shared.
func (a *app) sessions() *session.Manager {
	opts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		opts = append(opts, session.WithLocker(a.locker))
	}
	return session.NewManager(a.store, opts...)
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
