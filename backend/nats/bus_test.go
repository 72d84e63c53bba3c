//go:build nats

package nats_test

import (
	"context"
	"testing"
	"time"

	"github.com/courtflow/progression/backend/nats"
	"github.com/courtflow/progression/backend/testing/eventstoretest"
	"github.com/courtflow/progression/event"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus := nats.NewEventBus(eventstoretest.NewRegistry())
	defer bus.Disconnect()

	events, errs, err := bus.Subscribe(ctx, eventstoretest.FooName)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	id := uuid.New()
	published := event.New(eventstoretest.FooName, eventstoretest.FooData{A: "foo"}, event.Aggregate(id, "foo", 1))

	if err := bus.Publish(ctx, published); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case <-ctx.Done():
		t.Fatal("timed out waiting for the event")
	case err := <-errs:
		t.Fatal(err)
	case evt := <-events:
		if evt.ID() != published.ID() {
			t.Errorf("received event should have id %s; has %s", published.ID(), evt.ID())
		}
		if diff := cmp.Diff(published.Data(), evt.Data()); diff != "" {
			t.Errorf("data mismatch:\n%s", diff)
		}
		if event.RefOf(evt) != event.RefOf(published) {
			t.Errorf("received event should belong to %s; belongs to %s", event.RefOf(published), event.RefOf(evt))
		}
	}
}
