// Package test provides assertions for aggregate tests.
package test

import (
	"fmt"
	"strings"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/event"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

var (
	// ExampleID is a UUID that can be used in tests.
	ExampleID = uuid.New()
)

// TestingT is the subset of *testing.T used by the helpers.
type TestingT interface {
	Helper()
	Fatal(args ...any)
}

// NewAggregate tests the New function of an aggregate to check if the returned
// aggregate provides the correct aggregate name and id.
//
//	func TestNew(t *testing.T) {
//		test.NewAggregate(t, application.New, application.AggregateName)
//	}
func NewAggregate[A aggregate.Aggregate](t TestingT, newFunc func(uuid.UUID) A, expectedName string) {
	t.Helper()

	a := newFunc(ExampleID)
	id, name, _ := a.Aggregate()

	if name != expectedName {
		t.Fatal(fmt.Sprintf("aggregate name should be %q; got %q", expectedName, name))
	}

	if id != ExampleID {
		t.Fatal(fmt.Sprintf("aggregate id should be %q; got %q", ExampleID, id))
	}
}

// ExpectedChangeError is reported by Change when the tested aggregate doesn't
// have the required change.
type ExpectedChangeError struct {
	// EventName is the name of the tested change.
	EventName string

	// Matches is the number of changes that matched.
	Matches int

	cfg  changeConfig
	diff string
}

func (err *ExpectedChangeError) Error() string {
	var suffix string
	if err.diff != "" {
		suffix = fmt.Sprintf(" with event data (-want +got):\n%s", err.diff)
	}

	if err.cfg.exactly > 0 {
		return fmt.Sprintf("expected exactly %d %q changes%s; got %d", err.cfg.exactly, err.EventName, suffix, err.Matches)
	}

	return fmt.Sprintf("expected %q change%s", err.EventName, suffix)
}

// UnexpectedChangeError is reported by NoChange when the tested aggregate has
// an unwanted change.
type UnexpectedChangeError struct {
	// EventName is the name of the tested change.
	EventName string
}

func (err *UnexpectedChangeError) Error() string {
	return fmt.Sprintf("unexpected %q change", err.EventName)
}

// ChangeOption is an option for Change and NoChange.
type ChangeOption func(*changeConfig)

type changeConfig struct {
	eventData any
	exactly   int
}

// EventData returns a ChangeOption that also compares the event data of
// changes instead of just the event name.
func EventData(d any) ChangeOption {
	return func(cfg *changeConfig) {
		cfg.eventData = d
	}
}

// Exactly returns a ChangeOption that requires an aggregate to have a change
// exactly as many times as provided.
func Exactly(times int) ChangeOption {
	return func(cfg *changeConfig) {
		cfg.exactly = times
	}
}

// Change tests an aggregate for a change. The aggregate must have an
// uncommitted change with the given event name.
func Change(t TestingT, a aggregate.Aggregate, eventName string, opts ...ChangeOption) {
	t.Helper()

	var cfg changeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var matches int
	var diff string
	for _, change := range a.AggregateChanges() {
		if change.Name() != eventName {
			continue
		}

		if cfg.eventData != nil {
			if d := cmp.Diff(cfg.eventData, change.Data()); d != "" {
				diff = d
				continue
			}
		}

		matches++
	}

	if matches == 0 || (cfg.exactly > 0 && matches != cfg.exactly) {
		t.Fatal(&ExpectedChangeError{EventName: eventName, Matches: matches, cfg: cfg, diff: diff})
	}
}

// NoChange tests an aggregate for a change. The aggregate must not have an
// uncommitted change with the given event name.
func NoChange(t TestingT, a aggregate.Aggregate, eventName string) {
	t.Helper()

	for _, change := range a.AggregateChanges() {
		if change.Name() == eventName {
			t.Fatal(&UnexpectedChangeError{EventName: eventName})
			return
		}
	}
}

// Changes tests that the uncommitted changes of an aggregate have exactly the
// given event names, in order.
func Changes(t TestingT, a aggregate.Aggregate, eventNames ...string) {
	t.Helper()

	got := event.Names(a.AggregateChanges()...)
	if len(eventNames) == 0 && len(got) == 0 {
		return
	}

	if diff := cmp.Diff(eventNames, got); diff != "" {
		t.Fatal(fmt.Sprintf("unexpected changes [%s] (-want +got):\n%s", strings.Join(got, ", "), diff))
	}
}

// Data returns the data of the single uncommitted change with the given name.
func Data[D any](t TestingT, a aggregate.Aggregate, eventName string) D {
	t.Helper()

	var found []event.Event
	for _, change := range a.AggregateChanges() {
		if change.Name() == eventName {
			found = append(found, change)
		}
	}

	if len(found) != 1 {
		var zero D
		t.Fatal(fmt.Sprintf("expected exactly one %q change; got %d", eventName, len(found)))
		return zero
	}

	d, ok := event.TryCast[D](found[0])
	if !ok {
		t.Fatal(fmt.Sprintf("cannot cast %T to %T", found[0].Data(), d))
	}

	return d
}
