package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"sentencer/internal/platform/config"
	"sentencer/internal/platform/postgres"
	redisclient "sentencer/internal/platform/redis"
	"sentencer/internal/platform/sqlite"
	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/cache"
	"sentencer/internal/sentencing/metrics"
	"sentencer/internal/sentencing/ports"
	"sentencer/internal/sentencing/ruledoc"
	"sentencer/internal/sentencing/service"
	"sentencer/internal/sentencing/store/computation"
	"sentencer/pkg/platform/audit"
	"sentencer/pkg/platform/audit/publisher"
	auditkafka "sentencer/pkg/platform/audit/store/kafka"
	auditmemory "sentencer/pkg/platform/audit/store/memory"
	auditpostgres "sentencer/pkg/platform/audit/store/postgres"
	"sentencer/pkg/platform/circuit"
)

const (
	auditTopicPartitions  = 3
	auditTopicReplication = 1
)

// app holds the wired service and everything that must be released on exit.
type app struct {
	engine  *sentencing.Engine
	service *service.Service
	redis   *redisclient.Client
	closers []func(context.Context) error
}

// Close releases resources in reverse acquisition order.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return errors.Join(errs...)
}

func (a *app) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// newEngine builds the engine from the configured amount policy and, when
// set, an external rule document.
func newEngine(cfg config.Engine) (*sentencing.Engine, error) {
	policy, err := sentencing.ParseAmountPolicy(cfg.AmountPolicy)
	if err != nil {
		return nil, err
	}
	opts := []sentencing.Option{sentencing.WithAmountPolicy(policy)}
	if cfg.RulesPath != "" {
		reg, err := ruledoc.LoadRegistry(cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		opts = append(opts, sentencing.WithRegistry(reg))
	}
	return sentencing.NewEngine(opts...), nil
}

// buildApp wires stores, cache, audit and the sentencing service. reg may
// be nil for commands that do not expose metrics.
// On error every resource acquired so far is released.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	engine, err := newEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}
	a.engine = engine

	var store service.Store
	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	switch cfg.Store.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.onClose(func(context.Context) error { return db.Close() })
		store = computation.NewSQLite(db)
	case "postgres":
		db, err := postgres.Open(ctx, cfg.Postgres.URL, postgres.Options{
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		a.onClose(func(context.Context) error { return db.Close() })
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		store = computation.NewPostgres(db)
		auditStore = auditpostgres.New(db)
	default:
		store = computation.NewInMemory()
	}

	if len(cfg.Audit.KafkaBrokers) > 0 {
		kstore, err := auditkafka.New(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic, auditkafka.WithReadStore(auditStore))
		if err != nil {
			return nil, err
		}
		a.onClose(kstore.Close)
		if err := kstore.EnsureTopic(ctx, auditTopicPartitions, auditTopicReplication); err != nil {
			return nil, err
		}
		auditStore = kstore
	}

	pub := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(cfg.Audit.BufferSize),
		publisher.WithLogger(logger),
	)
	a.onClose(func(context.Context) error {
		pub.Close()
		return nil
	})

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(metrics.New(reg)),
		service.WithAuditPublisher(pub),
		service.WithBatchLimits(cfg.Engine.BatchConcurrency, cfg.Engine.MaxBatchSize),
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		a.redis = rc
		a.onClose(func(context.Context) error { return rc.Close() })
		redisCache := cache.NewRedis(rc.Client, cache.WithTTL(cfg.Redis.CacheTTL))
		opts = append(opts, service.WithCache(cache.NewGuarded(redisCache, circuit.New("outcome-cache"), logger)))
	}

	svc, err := service.New(engine, store, opts...)
	if err != nil {
		return nil, err
	}
	a.service = svc

	if cfg.Engine.RulesPath != "" {
		ports.LogAudit(ctx, logger, pub, audit.Event{
			Action:   string(audit.EventRulesLoaded),
			Subject:  cfg.Engine.RulesPath,
			Decision: svc.RulesVersion(),
		})
	}
	return a, nil
}
