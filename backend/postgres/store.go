// Package postgres provides a PostgreSQL event.Store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

var _ event.Store = &EventStore{}

// EventStore is a PostgreSQL event store.
type EventStore struct {
	onceConnect   sync.Once
	connectErr    error
	connectionURL string
	database      string
	table         string
	pool          *pgxpool.Pool
	reg           *codec.Registry
}

// EventStoreOption is an option for the PostgreSQL event store.
type EventStoreOption func(*EventStore)

// URL returns an EventStoreOption that specifies the connection string to the
// PostgreSQL server.
func URL(url string) EventStoreOption {
	return func(store *EventStore) {
		store.connectionURL = url
	}
}

// Database returns an EventStoreOption that configures the used database.
// Defaults to "progression".
func Database(name string) EventStoreOption {
	if name = strings.TrimSpace(name); name == "" {
		panic("database name cannot be empty")
	}

	return func(store *EventStore) {
		store.database = name
	}
}

// Table returns an EventStoreOption that configures the used table for events.
// Defaults to "events".
func Table(name string) EventStoreOption {
	if name = strings.TrimSpace(name); name == "" {
		panic(fmt.Errorf("table name cannot be empty"))
	}

	return func(store *EventStore) {
		store.table = name
	}
}

// NewEventStore returns a new PostgreSQL event store. If not otherwise
// specified using the URL() option, os.Getenv("POSTGRES_EVENTSTORE") is used as
// the connection string.
func NewEventStore(reg *codec.Registry, opts ...EventStoreOption) *EventStore {
	store := &EventStore{
		reg:           reg,
		database:      "progression",
		table:         "events",
		connectionURL: os.Getenv("POSTGRES_EVENTSTORE"),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Pool returns the underlying connection pool, or nil if the store has not
// connected yet.
func (store *EventStore) Pool() *pgxpool.Pool {
	return store.pool
}

// Connect connects to the PostgreSQL server and creates the database, table
// and indexes if they don't exist. Connect is called by Load and Append if
// not called explicitly.
func (store *EventStore) Connect(ctx context.Context) error {
	store.onceConnect.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		store.connectErr = store.connect(ctx)
	})
	return store.connectErr
}

func (store *EventStore) connect(ctx context.Context) error {
	if store.connectionURL == "" {
		return fmt.Errorf("missing connection string")
	}

	cfg, err := pgx.ParseConfig(store.connectionURL)
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}

	pool, err := pgxpool.Connect(ctx, cfg.ConnString())
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}

	var exists bool
	if err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT FROM pg_database WHERE datname = $1)", store.database).Scan(&exists); err != nil {
		pool.Close()
		return fmt.Errorf("check if %q database exists: %w", store.database, err)
	}

	if !exists {
		if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", store.database)); err != nil {
			pool.Close()
			return fmt.Errorf("create %q database: %w", store.database, err)
		}
	}
	pool.Close()

	purl, err := url.Parse(cfg.ConnString())
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	purl.Path = "/" + store.database

	if store.pool, err = pgxpool.Connect(ctx, purl.String()); err != nil {
		return fmt.Errorf("connect to %q database: %w", store.database, err)
	}

	if _, err := store.pool.Exec(ctx, eventTableSQL(store.table)); err != nil {
		return fmt.Errorf("create %q table: %w", store.table, err)
	}

	indexes := []struct {
		name   string
		fields []string
		unique bool
	}{
		{name: store.table + "_name", fields: []string{"name"}},
		{name: store.table + "_stream", fields: []string{"aggregate_name", "aggregate_id", "aggregate_version"}, unique: true},
	}

	for _, idx := range indexes {
		if _, err := store.pool.Exec(ctx, indexSQL(idx.name, store.table, idx.fields, idx.unique)); err != nil {
			return fmt.Errorf("create %q index: %w [fields=%v]", idx.name, err, idx.fields)
		}
	}

	return nil
}

// Load returns the events of the stream ordered by version.
func (store *EventStore) Load(ctx context.Context, stream event.Ref) ([]event.Event, error) {
	if err := store.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	sql, args, err := squirrel.
		Select("id", "name", "time", "aggregate_version", "data").
		From(store.table).
		Where(squirrel.Eq{"aggregate_name": stream.Name, "aggregate_id": stream.ID}).
		OrderBy("aggregate_version ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := store.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w [stream=%s]", err, stream)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var row dbevent
		if err := rows.Scan(&row.ID, &row.Name, &row.Time, &row.Version, &row.Data); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		evt, err := store.decodeEvent(stream, row)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return events, nil
}

// Append appends the events to the stream in a single transaction. A
// concurrent writer that appended first is detected either by the version
// check or by the unique stream index; both cases return a *event.VersionError.
func (store *EventStore) Append(ctx context.Context, stream event.Ref, expectedVersion int, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	if err := event.ValidateAppend(stream, expectedVersion, events...); err != nil {
		return fmt.Errorf("validate events: %w", err)
	}

	if err := store.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	tx, err := store.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := store.currentVersion(ctx, tx, stream)
	if err != nil {
		return err
	}

	if current != expectedVersion {
		return &event.VersionError{Stream: stream, Expected: expectedVersion, Current: current}
	}

	insert := squirrel.
		Insert(store.table).
		Columns("id", "name", "time", "aggregate_id", "aggregate_name", "aggregate_version", "data").
		PlaceholderFormat(squirrel.Dollar)

	for _, evt := range events {
		b, err := store.reg.Marshal(evt.Data())
		if err != nil {
			return fmt.Errorf("marshal %q event data: %w", evt.Name(), err)
		}
		insert = insert.Values(evt.ID(), evt.Name(), evt.Time().UnixNano(), stream.ID, stream.Name, event.VersionOf(evt), b)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return &event.VersionError{Stream: stream, Expected: expectedVersion, Current: expectedVersion + 1}
		}
		return fmt.Errorf("insert events: %w [stream=%s]", err, stream)
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return &event.VersionError{Stream: stream, Expected: expectedVersion, Current: expectedVersion + 1}
		}
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (store *EventStore) currentVersion(ctx context.Context, tx pgx.Tx, stream event.Ref) (int, error) {
	sql, args, err := squirrel.
		Select("COALESCE(MAX(aggregate_version), 0)").
		From(store.table).
		Where(squirrel.Eq{"aggregate_name": stream.Name, "aggregate_id": stream.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var version int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&version); err != nil {
		return 0, fmt.Errorf("query current version: %w [stream=%s]", err, stream)
	}

	return version, nil
}

func (store *EventStore) decodeEvent(stream event.Ref, row dbevent) (event.Event, error) {
	data, err := store.reg.Unmarshal(row.Data, row.Name)
	if err != nil {
		return nil, fmt.Errorf("unmarshal event data: %w [id=%s]", err, row.ID)
	}

	return event.New(
		row.Name,
		data,
		event.ID(row.ID),
		event.Time(time.Unix(0, row.Time).UTC()),
		event.Aggregate(stream.ID, stream.Name, row.Version),
	), nil
}

// Close closes the connection pool.
func (store *EventStore) Close() {
	if store.pool != nil {
		store.pool.Close()
	}
}

type dbevent struct {
	ID      uuid.UUID
	Name    string
	Time    int64
	Version int
	Data    []byte
}

func eventTableSQL(name string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id UUID PRIMARY KEY NOT NULL,
		name VARCHAR(255) NOT NULL,
		time BIGINT NOT NULL,
		aggregate_id UUID NOT NULL,
		aggregate_name VARCHAR(255) NOT NULL,
		aggregate_version INTEGER NOT NULL,
		data JSONB
	)`, name)
}

func indexSQL(name, table string, fields []string, unique bool) string {
	var uniqueOpt string
	if unique {
		uniqueOpt = "UNIQUE"
	}
	return fmt.Sprintf("CREATE %s INDEX IF NOT EXISTS %s ON %s (%s)", uniqueOpt, name, table, strings.Join(fields, ", "))
}
