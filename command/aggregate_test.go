package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/backend/memory"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/event"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type renamePayload struct {
	ID   uuid.UUID
	Name string
}

type named struct {
	*aggregate.Base

	name string
}

func newNamed(id uuid.UUID) *named {
	return &named{Base: aggregate.New("named", id)}
}

func (n *named) Rename(name string) {
	if name == n.name {
		return
	}
	aggregate.Next(n, "renamed", name)
}

func (n *named) ApplyEvent(evt event.Event) {
	if evt.Name() == "renamed" {
		n.name = event.Cast[string](evt)
	}
}

func renameHandler(repo *repository.Repository) command.Handler {
	return command.AggregateHandler(repository.Typed(repo, newNamed), "id",
		func(p renamePayload) uuid.UUID { return p.ID },
		func(_ context.Context, n *named, p renamePayload) error {
			if p.Name == "" {
				return errors.New("empty name")
			}
			n.Rename(p.Name)
			return nil
		},
	)
}

func TestAggregateHandler(t *testing.T) {
	ctx := context.Background()
	store := memory.NewEventStore()
	h := renameHandler(repository.New(store))
	id := uuid.New()

	events, err := h(ctx, command.New("rename", renamePayload{ID: id, Name: "foo"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if diff := cmp.Diff([]string{"renamed"}, event.Names(events...)); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}

	events, err = h(ctx, command.New("rename", renamePayload{ID: id, Name: "foo"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("renaming to the same name should not record events; got %v", event.Names(events...))
	}

	stream, err := store.Load(ctx, event.Ref{Name: "named", ID: id})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(stream) != 1 {
		t.Errorf("stream should have %d event; has %d", 1, len(stream))
	}
}

func TestAggregateHandler_nilID(t *testing.T) {
	h := renameHandler(repository.New(memory.NewEventStore()))

	_, err := h(context.Background(), command.New("rename", renamePayload{Name: "foo"}))
	if !command.IsValidationError(err) {
		t.Fatalf("handler should fail with a validation error; got %v", err)
	}
}

func TestAggregateHandler_payload(t *testing.T) {
	h := renameHandler(repository.New(memory.NewEventStore()))

	if _, err := h(context.Background(), command.New("rename", "foo")); err == nil {
		t.Fatalf("handler should fail for a payload of the wrong type")
	}
}

func TestAggregateHandler_error(t *testing.T) {
	store := memory.NewEventStore()
	h := renameHandler(repository.New(store))

	if _, err := h(context.Background(), command.New("rename", renamePayload{ID: uuid.New()})); err == nil {
		t.Fatalf("handler should return the error of the aggregate")
	}

	if streams := store.Streams(); len(streams) != 0 {
		t.Errorf("a failed unit of work should not append events; got streams %v", streams)
	}
}
