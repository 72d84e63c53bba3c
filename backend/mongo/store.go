// Package mongo provides a MongoDB event.Store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver"
)

var _ event.Store = (*EventStore)(nil)

// EventStore is a MongoDB event store. Events are stored in the entries
// collection; the states collection holds one document per stream with its
// current version and serves as the optimistic concurrency guard.
type EventStore struct {
	reg          *codec.Registry
	url          string
	dbname       string
	entriesCol   string
	statesCol    string
	transactions bool

	client  *mongo.Client
	db      *mongo.Database
	entries *mongo.Collection
	states  *mongo.Collection

	onceConnect sync.Once
	connectErr  error
}

// EventStoreOption is an EventStore option.
type EventStoreOption func(*EventStore)

// CommandError is a mongo.CommandError that satisfies
// aggregate.IsConsistencyError(err). Transient transaction errors are reported
// as CommandErrors so that the command is retried.
type CommandError mongo.CommandError

// CommandError returns the error as a mongo.CommandError.
func (err CommandError) CommandError() mongo.CommandError {
	return mongo.CommandError(err)
}

func (err CommandError) Error() string {
	return mongo.CommandError(err).Error()
}

// IsConsistencyError implements the consistency error marker.
func (err CommandError) IsConsistencyError() bool {
	return true
}

type state struct {
	AggregateName string    `bson:"aggregateName"`
	AggregateID   uuid.UUID `bson:"aggregateId"`
	Version       int       `bson:"version"`
}

type entry struct {
	ID               uuid.UUID `bson:"id"`
	Name             string    `bson:"name"`
	Time             time.Time `bson:"time"`
	TimeNano         int64     `bson:"timeNano"`
	AggregateName    string    `bson:"aggregateName"`
	AggregateID      uuid.UUID `bson:"aggregateId"`
	AggregateVersion int       `bson:"aggregateVersion"`
	Data             []byte    `bson:"data"`
}

// URL returns an Option that specifies the URL to the MongoDB instance.
// Defaults to the environment variable "MONGO_URL".
func URL(url string) EventStoreOption {
	return func(s *EventStore) {
		s.url = url
	}
}

// Client returns an Option that specifies the underlying mongo.Client to be
// used by the Store.
func Client(c *mongo.Client) EventStoreOption {
	return func(s *EventStore) {
		s.client = c
	}
}

// Database returns an Option that sets the mongo database to use for the events.
func Database(name string) EventStoreOption {
	return func(s *EventStore) {
		s.dbname = name
	}
}

// Collection returns an Option that sets the mongo collection where the events
// are stored in.
func Collection(name string) EventStoreOption {
	return func(s *EventStore) {
		s.entriesCol = name
	}
}

// StateCollection returns an Option that specifies the name of the Collection
// where the current versions of the streams are stored in.
func StateCollection(name string) EventStoreOption {
	return func(s *EventStore) {
		s.statesCol = name
	}
}

// Transactions returns an Option that, if tx is true, configures a Store to use
// MongoDB Transactions when appending events.
//
// Transactions can only be used in replica sets or sharded clusters:
// https://docs.mongodb.com/manual/core/transactions/
func Transactions(tx bool) EventStoreOption {
	return func(s *EventStore) {
		s.transactions = tx
	}
}

// NewEventStore returns a MongoDB event.Store.
func NewEventStore(reg *codec.Registry, opts ...EventStoreOption) *EventStore {
	s := EventStore{reg: reg}
	for _, opt := range opts {
		opt(&s)
	}
	if strings.TrimSpace(s.dbname) == "" {
		s.dbname = "progression"
	}
	if strings.TrimSpace(s.entriesCol) == "" {
		s.entriesCol = "events"
	}
	if strings.TrimSpace(s.statesCol) == "" {
		s.statesCol = "states"
	}
	return &s
}

// Client returns the underlying mongo.Client, or nil if the store has not
// connected yet and no client was provided.
func (s *EventStore) Client() *mongo.Client {
	return s.client
}

// StateCollection returns the collection that holds the stream versions. It
// returns nil until the store has connected.
func (s *EventStore) StateCollection() *mongo.Collection {
	return s.states
}

// Load returns the events of the stream ordered by version.
func (s *EventStore) Load(ctx context.Context, stream event.Ref) ([]event.Event, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	cur, err := s.entries.Find(ctx, bson.D{
		{Key: "aggregateName", Value: stream.Name},
		{Key: "aggregateId", Value: stream.ID},
	}, options.Find().SetSort(bson.D{{Key: "aggregateVersion", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: %w [stream=%s]", err, stream)
	}
	defer cur.Close(ctx)

	var events []event.Event
	for cur.Next(ctx) {
		var e entry
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}

		evt, err := e.event(s.reg)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}

	return events, nil
}

// Append appends the events to the stream iff the stream is at
// expectedVersion.
func (s *EventStore) Append(ctx context.Context, stream event.Ref, expectedVersion int, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	if err := event.ValidateAppend(stream, expectedVersion, events...); err != nil {
		return fmt.Errorf("validate events: %w", err)
	}

	if err := s.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	return s.client.UseSession(ctx, func(ctx mongo.SessionContext) (out error) {
		defer func() {
			var cmdError mongo.CommandError
			if errors.As(out, &cmdError) && (cmdError.HasErrorLabel(driver.TransientTransactionError) ||
				cmdError.HasErrorLabel(driver.UnknownTransactionCommitResult)) {
				out = CommandError(cmdError)
			}
		}()

		if s.transactions {
			if err := ctx.StartTransaction(); err != nil {
				return fmt.Errorf("start transaction: %w", err)
			}
		}

		abort := func(err error) error {
			if s.transactions {
				if abortError := ctx.AbortTransaction(ctx); abortError != nil {
					return fmt.Errorf("abort transaction: %w", abortError)
				}
			}
			return err
		}

		if err := s.advanceState(ctx, stream, expectedVersion, event.VersionOf(events[len(events)-1])); err != nil {
			return abort(err)
		}

		if err := s.insert(ctx, events); err != nil {
			return abort(err)
		}

		if s.transactions {
			if err := ctx.CommitTransaction(ctx); err != nil {
				return fmt.Errorf("commit transaction: %w", err)
			}
		}

		return nil
	})
}

// advanceState moves the state document of the stream from expectedVersion
// to version. It fails with a *event.VersionError if another writer moved the
// stream first.
func (s *EventStore) advanceState(ctx context.Context, stream event.Ref, expectedVersion, version int) error {
	if expectedVersion == 0 {
		_, err := s.states.InsertOne(ctx, state{
			AggregateName: stream.Name,
			AggregateID:   stream.ID,
			Version:       version,
		})
		if mongo.IsDuplicateKeyError(err) {
			return s.versionError(ctx, stream, expectedVersion)
		}
		if err != nil {
			return fmt.Errorf("insert state: %w", err)
		}
		return nil
	}

	res, err := s.states.UpdateOne(ctx, bson.D{
		{Key: "aggregateName", Value: stream.Name},
		{Key: "aggregateId", Value: stream.ID},
		{Key: "version", Value: expectedVersion},
	}, bson.D{{Key: "$set", Value: bson.D{{Key: "version", Value: version}}}})
	if err != nil {
		return fmt.Errorf("update state: %w", err)
	}

	if res.MatchedCount == 0 {
		return s.versionError(ctx, stream, expectedVersion)
	}

	return nil
}

func (s *EventStore) versionError(ctx context.Context, stream event.Ref, expectedVersion int) error {
	var st state
	err := s.states.FindOne(ctx, bson.D{
		{Key: "aggregateName", Value: stream.Name},
		{Key: "aggregateId", Value: stream.ID},
	}).Decode(&st)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("decode state: %w", err)
	}
	return &event.VersionError{Stream: stream, Expected: expectedVersion, Current: st.Version}
}

func (s *EventStore) insert(ctx context.Context, events []event.Event) error {
	docs := make([]any, len(events))
	for i, evt := range events {
		b, err := s.reg.Marshal(evt.Data())
		if err != nil {
			return fmt.Errorf("encode %q event data: %w", evt.Name(), err)
		}
		id, name, v := evt.Aggregate()
		docs[i] = entry{
			ID:               evt.ID(),
			Name:             evt.Name(),
			Time:             evt.Time(),
			TimeNano:         evt.Time().UnixNano(),
			AggregateName:    name,
			AggregateID:      id,
			AggregateVersion: v,
			Data:             b,
		}
	}

	if _, err := s.entries.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	return nil
}

// Connect establishes the connection to MongoDB and creates the indexes.
// Connect is called by Load and Append if not called explicitly.
func (s *EventStore) Connect(ctx context.Context, opts ...*options.ClientOptions) error {
	s.onceConnect.Do(func() {
		if s.connectErr = s.connect(ctx, opts...); s.connectErr != nil {
			return
		}
		s.connectErr = s.ensureIndexes(ctx)
	})
	return s.connectErr
}

func (s *EventStore) connect(ctx context.Context, opts ...*options.ClientOptions) error {
	if s.client == nil {
		uri := s.url
		if uri == "" {
			uri = os.Getenv("MONGO_URL")
		}
		opts = append(
			[]*options.ClientOptions{options.Client().ApplyURI(uri)},
			opts...,
		)

		var err error
		if s.client, err = mongo.Connect(ctx, opts...); err != nil {
			s.client = nil
			return fmt.Errorf("mongo.Connect: %w", err)
		}
	}
	s.db = s.client.Database(s.dbname)
	s.entries = s.db.Collection(s.entriesCol)
	s.states = s.db.Collection(s.statesCol)
	return nil
}

func (s *EventStore) ensureIndexes(ctx context.Context) error {
	if _, err := s.entries.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{
			Keys: bson.D{
				{Key: "aggregateName", Value: 1},
				{Key: "aggregateId", Value: 1},
				{Key: "aggregateVersion", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}); err != nil {
		return fmt.Errorf("create indexes (%s): %w", s.entries.Name(), err)
	}

	if _, err := s.states.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "aggregateName", Value: 1},
			{Key: "aggregateId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create indexes (%s): %w", s.states.Name(), err)
	}

	return nil
}

func (e entry) event(reg *codec.Registry) (event.Event, error) {
	data, err := reg.Unmarshal(e.Data, e.Name)
	if err != nil {
		return nil, fmt.Errorf("decode %q event data: %w", e.Name, err)
	}
	return event.New(
		e.Name,
		data,
		event.ID(e.ID),
		event.Time(time.Unix(0, e.TimeNano).UTC()),
		event.Aggregate(e.AggregateID, e.AggregateName, e.AggregateVersion),
	), nil
}
