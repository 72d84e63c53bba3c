// Package nats publishes committed events over NATS.
package nats

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

var _ event.Bus = (*EventBus)(nil)

// EventBus is a NATS event bus. Every event is published to the subject
// returned by the subject function, which defaults to the event name with
// dots replaced by underscores.
type EventBus struct {
	reg         *codec.Registry
	url         string
	subjectFunc func(eventName string) (subject string)
	natsOpts    []nats.Option

	conn        *nats.Conn
	onceConnect sync.Once
	connectErr  error
}

// EventBusOption is an EventBus option.
type EventBusOption func(*EventBus)

type envelope struct {
	ID               uuid.UUID
	Name             string
	Time             time.Time
	Data             []byte
	AggregateName    string
	AggregateID      uuid.UUID
	AggregateVersion int
}

// NewEventBus returns a NATS event bus that encodes payloads using reg.
func NewEventBus(reg *codec.Registry, opts ...EventBusOption) *EventBus {
	bus := &EventBus{reg: reg}
	for _, opt := range opts {
		opt(bus)
	}
	if bus.subjectFunc == nil {
		bus.subjectFunc = defaultSubjectFunc
	}
	return bus
}

// Connect connects to NATS. Publish and Subscribe call Connect if it has not
// been called explicitly.
func (bus *EventBus) Connect(ctx context.Context) error {
	bus.onceConnect.Do(func() {
		if bus.conn != nil {
			return
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			bus.conn, bus.connectErr = nats.Connect(bus.natsURL(), bus.natsOpts...)
		}()

		select {
		case <-ctx.Done():
			bus.connectErr = ctx.Err()
		case <-done:
		}

		if bus.connectErr != nil {
			bus.connectErr = fmt.Errorf("connect to nats: %w [url=%s]", bus.connectErr, bus.natsURL())
		}
	})
	return bus.connectErr
}

// Connection returns the underlying connection, or nil if the bus has not
// connected yet.
func (bus *EventBus) Connection() *nats.Conn {
	return bus.conn
}

// Publish publishes the events in order.
func (bus *EventBus) Publish(ctx context.Context, events ...event.Event) error {
	if err := bus.Connect(ctx); err != nil {
		return err
	}

	for _, evt := range events {
		if err := bus.publish(evt); err != nil {
			return fmt.Errorf("publish %q event: %w", evt.Name(), err)
		}
	}

	return nil
}

func (bus *EventBus) publish(evt event.Event) error {
	b, err := bus.reg.Marshal(evt.Data())
	if err != nil {
		return fmt.Errorf("encode event data: %w [event=%v, type(data)=%T]", err, evt.Name(), evt.Data())
	}

	id, name, v := evt.Aggregate()
	env := envelope{
		ID:               evt.ID(),
		Name:             evt.Name(),
		Time:             evt.Time(),
		Data:             b,
		AggregateName:    name,
		AggregateID:      id,
		AggregateVersion: v,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	if err := bus.conn.Publish(bus.subjectFunc(env.Name), buf.Bytes()); err != nil {
		return fmt.Errorf("nats: %w", err)
	}

	return nil
}

// Subscribe subscribes to the given events and returns the decoded events and
// asynchronous errors. Both channels are closed when ctx is canceled.
func (bus *EventBus) Subscribe(ctx context.Context, names ...string) (<-chan event.Event, <-chan error, error) {
	if err := bus.Connect(ctx); err != nil {
		return nil, nil, err
	}

	msgs := make(chan *nats.Msg, 64)
	subs := make([]*nats.Subscription, 0, len(names))
	for _, name := range names {
		sub, err := bus.conn.ChanSubscribe(bus.subjectFunc(name), msgs)
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return nil, nil, fmt.Errorf("subscribe to %q: %w", name, err)
		}
		subs = append(subs, sub)
	}

	out := make(chan event.Event)
	errs := make(chan error)

	go func() {
		defer close(out)
		defer close(errs)
		defer func() {
			for _, s := range subs {
				s.Unsubscribe()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				evt, err := bus.decode(msg.Data)
				if err != nil {
					select {
					case <-ctx.Done():
						return
					case errs <- err:
					}
					continue
				}

				select {
				case <-ctx.Done():
					return
				case out <- evt:
				}
			}
		}
	}()

	return out, errs, nil
}

func (bus *EventBus) decode(b []byte) (event.Event, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	data, err := bus.reg.Unmarshal(env.Data, env.Name)
	if err != nil {
		return nil, fmt.Errorf("decode event data: %w [event=%v]", err, env.Name)
	}

	return event.New(
		env.Name,
		data,
		event.ID(env.ID),
		event.Time(env.Time),
		event.Aggregate(env.AggregateID, env.AggregateName, env.AggregateVersion),
	), nil
}

// Disconnect drains and closes the connection.
func (bus *EventBus) Disconnect() error {
	if bus.conn == nil {
		return nil
	}
	return bus.conn.Drain()
}

func (bus *EventBus) natsURL() string {
	if bus.url != "" {
		return bus.url
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		return url
	}
	return nats.DefaultURL
}

func defaultSubjectFunc(eventName string) string {
	return replaceDots(eventName)
}
