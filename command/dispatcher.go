package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/courtflow/progression/event"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler handles a command and returns the events it committed.
type Handler func(ctx context.Context, cmd Command) ([]event.Event, error)

// Reaction reacts to a committed event, typically by running a command
// against another aggregate, and returns the events it committed.
type Reaction func(ctx context.Context, evt event.Event) ([]event.Event, error)

// Registerer registers command handlers and event reactions.
type Registerer interface {
	Handle(name string, h Handler)
	React(eventName string, r Reaction)
}

// Dispatcher routes commands to their handlers. After a handler committed its
// events, the reactions registered for those events run concurrently, each
// against its own stream. Reactions of reactions run until no further events
// are committed or the maximum depth is reached.
type Dispatcher struct {
	mux       sync.RWMutex
	handlers  map[string]Handler
	reactions map[string][]Reaction

	log      *zap.Logger
	metrics  *Metrics
	maxDepth int
}

// DispatcherOption is a Dispatcher option.
type DispatcherOption func(*Dispatcher)

// Logger returns a DispatcherOption that sets the logger.
func Logger(log *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithMetrics returns a DispatcherOption that records dispatch metrics.
func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// MaxDepth returns a DispatcherOption that limits how many generations of
// reactions run for a single command. Defaults to 8.
func MaxDepth(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.maxDepth = n
	}
}

// NewDispatcher returns a Dispatcher without handlers.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handlers:  make(map[string]Handler),
		reactions: make(map[string][]Reaction),
		log:       zap.NewNop(),
		maxDepth:  8,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle registers the handler for the named command. Handle panics if the
// command already has a handler.
func (d *Dispatcher) Handle(name string, h Handler) {
	d.mux.Lock()
	defer d.mux.Unlock()
	if _, ok := d.handlers[name]; ok {
		panic(fmt.Errorf("handler for %q command already registered", name))
	}
	d.handlers[name] = h
}

// React registers a reaction to the named event.
func (d *Dispatcher) React(eventName string, r Reaction) {
	d.mux.Lock()
	defer d.mux.Unlock()
	d.reactions[eventName] = append(d.reactions[eventName], r)
}

// Commands returns the names of the commands that have a handler.
func (d *Dispatcher) Commands() []string {
	d.mux.RLock()
	defer d.mux.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch handles cmd and runs the reactions to its events. It returns the
// events committed by the handler followed by the events committed by the
// reactions. Reactions run against independent streams; if one of them fails
// the events of the others remain committed and the failure is returned
// together with all committed events.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) ([]event.Event, error) {
	d.mux.RLock()
	h, ok := d.handlers[cmd.Name]
	d.mux.RUnlock()

	log := d.log.With(zap.String("command", cmd.Name), zap.Stringer("id", cmd.ID))

	if !ok {
		err := fmt.Errorf("%w [command=%s]", ErrUnhandled, cmd.Name)
		d.metrics.observe(cmd.Name, time.Now(), nil, err)
		return nil, err
	}

	start := time.Now()
	events, err := h(ctx, cmd)
	d.metrics.observe(cmd.Name, start, event.Names(events...), err)
	if err != nil {
		log.Warn("handle command", zap.Error(err))
		return nil, fmt.Errorf("handle %q command: %w", cmd.Name, err)
	}

	log.Debug("handled command", zap.Strings("events", event.Names(events...)))

	all := events
	next := events
	for depth := 0; len(next) > 0 && depth < d.maxDepth; depth++ {
		reacted, err := d.react(ctx, next)
		all = append(all, reacted...)
		if err != nil {
			log.Warn("react to events", zap.Int("depth", depth), zap.Error(err))
			return all, err
		}
		next = reacted
	}

	if len(next) > 0 {
		log.Warn("reaction depth exceeded", zap.Int("maxDepth", d.maxDepth), zap.Strings("pending", event.Names(next...)))
	}

	return all, nil
}

func (d *Dispatcher) react(ctx context.Context, events []event.Event) ([]event.Event, error) {
	type job struct {
		evt      event.Event
		reaction Reaction
	}

	d.mux.RLock()
	var jobs []job
	for _, evt := range events {
		for _, r := range d.reactions[evt.Name()] {
			jobs = append(jobs, job{evt: evt, reaction: r})
		}
	}
	d.mux.RUnlock()

	if len(jobs) == 0 {
		return nil, nil
	}

	results := make([][]event.Event, len(jobs))
	errs := make([]error, len(jobs))

	var group errgroup.Group
	for i, j := range jobs {
		i, j := i, j
		group.Go(func() error {
			events, err := j.reaction(ctx, j.evt)
			results[i] = events
			if err != nil {
				errs[i] = fmt.Errorf("react to %q event: %w", j.evt.Name(), err)
			}
			for _, e := range events {
				d.metrics.observeEvent(e.Name())
			}
			return nil
		})
	}
	group.Wait()

	var out []event.Event
	for _, events := range results {
		out = append(out, events...)
	}

	return out, errors.Join(errs...)
}
