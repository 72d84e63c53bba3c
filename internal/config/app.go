package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/application"
	"github.com/courtflow/progression/backend/memory"
	"github.com/courtflow/progression/backend/mongo"
	"github.com/courtflow/progression/backend/nats"
	"github.com/courtflow/progression/backend/postgres"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/event"
	"github.com/courtflow/progression/hearing"
	"github.com/courtflow/progression/notice"
	"github.com/courtflow/progression/process"
	"github.com/courtflow/progression/prosecutioncase"
	"github.com/courtflow/progression/refdata"
	"github.com/courtflow/progression/register"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the components built from a Config.
type App struct {
	Store      event.Store
	Repository *repository.Repository
	Dispatcher *command.Dispatcher
	Metrics    *prometheus.Registry
	Log        *zap.Logger

	closers []func(context.Context) error
}

// SetupOption is an option for Setup.
type SetupOption func(*setup)

type setup struct {
	lookup refdata.Lookup
	query  refdata.Query
}

// Refdata returns a SetupOption that sets the reference data used by the
// application enricher. Defaults to an empty refdata.Static.
func Refdata(lookup refdata.Lookup, query refdata.Query) SetupOption {
	return func(s *setup) {
		s.lookup = lookup
		s.query = query
	}
}

// Setup connects the configured backends and wires the command handlers and
// reactions of all progression aggregates into a dispatcher.
func (cfg Config) Setup(ctx context.Context, log *zap.Logger, opts ...SetupOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	static := refdata.NewStatic()
	s := setup{lookup: static, query: static}
	for _, opt := range opts {
		opt(&s)
	}

	app := &App{Metrics: prometheus.NewRegistry(), Log: log}

	store, err := cfg.store(ctx, app)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Store = store

	repoOpts := []repository.Option{repository.Logger(log), repository.MaxRetries(cfg.MaxRetries)}
	if cfg.NATSURL != "" {
		bus := nats.NewEventBus(Events(), nats.URL(cfg.NATSURL))
		if err := bus.Connect(ctx); err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return bus.Disconnect() })
		repoOpts = append(repoOpts, repository.WithBus(bus))
	}
	app.Repository = repository.New(store, repoOpts...)

	lookup := s.lookup
	if cfg.RedisURL != "" {
		ropts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(ropts)
		app.closers = append(app.closers, func(context.Context) error { return rdb.Close() })
		lookup = refdata.NewCache(lookup, rdb, refdata.TTL(cfg.RefdataTTL), refdata.CacheLogger(log))
	}

	d := command.NewDispatcher(command.Logger(log), command.WithMetrics(command.NewMetrics(app.Metrics)))
	application.HandleCommands(d, app.Repository, application.NewEnricher(lookup, s.query, application.EnricherLogger(log)))
	hearing.HandleCommands(d, app.Repository)
	prosecutioncase.HandleCommands(d, app.Repository)
	register.HandleCommands(d, app.Repository)
	notice.HandleCommands(d, app.Repository)
	process.New(app.Repository, process.Logger(log)).Register(d)
	app.Dispatcher = d

	return app, nil
}

func (cfg Config) store(ctx context.Context, app *App) (event.Store, error) {
	switch cfg.Backend {
	case Postgres:
		store := postgres.NewEventStore(Events(), postgres.URL(cfg.PostgresURL))
		if err := store.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error {
			store.Close()
			return nil
		})
		return store, nil
	case Mongo:
		store := mongo.NewEventStore(Events(), mongo.URL(cfg.MongoURL))
		if err := store.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		app.closers = append(app.closers, func(ctx context.Context) error {
			return store.Client().Disconnect(ctx)
		})
		return store, nil
	default:
		return memory.NewEventStore(), nil
	}
}

// Close closes the connections of the App in reverse order of creation.
func (app *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}
