// Package eventstoretest tests event.Store implementations against the
// append/load contract of the event log.
package eventstoretest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/event"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FooName is the name of the test event.
const FooName = "eventstoretest.foo"

// FooData is the payload of the test event.
type FooData struct {
	A string
	B []int
}

// EventStoreFactory creates an event.Store that decodes payloads using reg.
type EventStoreFactory func(reg *codec.Registry) event.Store

// NewRegistry returns a registry that knows the test event.
func NewRegistry() *codec.Registry {
	reg := codec.New()
	codec.Register[FooData](reg, FooName)
	return reg
}

// Run tests an event store implementation.
func Run(t *testing.T, name string, newStore EventStoreFactory) {
	t.Run(name, func(t *testing.T) {
		run(t, "AppendLoad", newStore, testAppendLoad)
		run(t, "UnknownStream", newStore, testUnknownStream)
		run(t, "Conflict", newStore, testConflict)
		run(t, "InvalidBatch", newStore, testInvalidBatch)
		run(t, "ConcurrentAppend", newStore, testConcurrentAppend)
	})
}

func run(t *testing.T, name string, newStore EventStoreFactory, runner func(*testing.T, EventStoreFactory)) {
	t.Run(name, func(t *testing.T) {
		runner(t, newStore)
	})
}

func makeEvents(ref event.Ref, from, n int) []event.Event {
	events := make([]event.Event, n)
	for i := range events {
		events[i] = event.New(FooName, FooData{A: fmt.Sprintf("foo-%d", from+i), B: []int{from + i}}, event.Aggregate(ref.ID, ref.Name, from+i))
	}
	return events
}

func testAppendLoad(t *testing.T, newStore EventStoreFactory) {
	store := newStore(NewRegistry())
	ctx := context.Background()
	ref := event.Ref{Name: "foo", ID: uuid.New()}

	first := makeEvents(ref, 1, 2)
	if err := store.Append(ctx, ref, 0, first...); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	second := makeEvents(ref, 3, 1)
	if err := store.Append(ctx, ref, 2, second...); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	loaded, err := store.Load(ctx, ref)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqualEvents(t, append(first, second...), loaded)
}

func testUnknownStream(t *testing.T, newStore EventStoreFactory) {
	store := newStore(NewRegistry())

	events, err := store.Load(context.Background(), event.Ref{Name: "foo", ID: uuid.New()})
	if err != nil {
		t.Fatalf("Load should not fail for an unknown stream; got %v", err)
	}

	if len(events) != 0 {
		t.Fatalf("Load should return no events for an unknown stream; got %d", len(events))
	}
}

func testConflict(t *testing.T, newStore EventStoreFactory) {
	store := newStore(NewRegistry())
	ctx := context.Background()
	ref := event.Ref{Name: "foo", ID: uuid.New()}

	if err := store.Append(ctx, ref, 0, makeEvents(ref, 1, 2)...); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	err := store.Append(ctx, ref, 0, makeEvents(ref, 1, 1)...)
	if !aggregate.IsConsistencyError(err) {
		t.Fatalf("Append at a stale version should fail with a consistency error; got %v", err)
	}

	var verr *event.VersionError
	if errors.As(err, &verr) && verr.Current != 2 {
		t.Errorf("VersionError should report current version %d; got %d", 2, verr.Current)
	}

	loaded, err := store.Load(ctx, ref)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("a failed append must not change the stream; got %d events", len(loaded))
	}
}

func testInvalidBatch(t *testing.T, newStore EventStoreFactory) {
	store := newStore(NewRegistry())
	ctx := context.Background()
	ref := event.Ref{Name: "foo", ID: uuid.New()}

	events := makeEvents(ref, 1, 3)
	events[2] = makeEvents(ref, 5, 1)[0]

	if err := store.Append(ctx, ref, 0, events...); err == nil {
		t.Fatalf("Append should fail for a batch with a version gap")
	}

	loaded, err := store.Load(ctx, ref)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 0 {
		t.Fatalf("a rejected batch must not be partially appended; got %d events", len(loaded))
	}
}

func testConcurrentAppend(t *testing.T, newStore EventStoreFactory) {
	store := newStore(NewRegistry())
	ref := event.Ref{Name: "foo", ID: uuid.New()}

	const writers = 10
	results := make([]error, writers)

	group, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < writers; i++ {
		i := i
		group.Go(func() error {
			results[i] = store.Append(ctx, ref, 0, makeEvents(ref, 1, 2)...)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		t.Fatal(err)
	}

	var succeeded int
	for i, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		if !aggregate.IsConsistencyError(err) {
			t.Errorf("[%d] Append failed with an unexpected error: %v", i, err)
		}
	}

	if succeeded != 1 {
		t.Fatalf("exactly one concurrent append at the same version should succeed; %d did", succeeded)
	}
}

func assertEqualEvents(t *testing.T, want, got []event.Event) {
	t.Helper()

	if len(want) != len(got) {
		t.Fatalf("expected %d events; got %d", len(want), len(got))
	}

	for i := range want {
		if want[i].ID() != got[i].ID() || want[i].Name() != got[i].Name() {
			t.Errorf("event #%d: want %s(%s); got %s(%s)", i, want[i].Name(), want[i].ID(), got[i].Name(), got[i].ID())
		}

		wid, wname, wv := want[i].Aggregate()
		gid, gname, gv := got[i].Aggregate()
		if wid != gid || wname != gname || wv != gv {
			t.Errorf("event #%d: aggregate should be (%s, %s, %d); is (%s, %s, %d)", i, wid, wname, wv, gid, gname, gv)
		}

		if diff := cmp.Diff(want[i].Data(), got[i].Data()); diff != "" {
			t.Errorf("event #%d: data mismatch:\n%s", i, diff)
		}
	}
}
