// Package command dispatches commands to the handlers of the progression
// aggregates and runs the reactions to the events they emit.
package command

import (
	"encoding/json"
	"fmt"

	"github.com/courtflow/progression/codec"
	"github.com/google/uuid"
)

// A Command is a request to change the state of an aggregate.
type Command struct {
	ID            uuid.UUID
	Name          string
	Payload       any
	AggregateName string
	AggregateID   uuid.UUID
}

// Option is a command option.
type Option func(*Command)

// ID returns an Option that overrides the auto-generated UUID of a command.
func ID(id uuid.UUID) Option {
	return func(cmd *Command) {
		cmd.ID = id
	}
}

// Aggregate returns an Option that links a command to the aggregate it
// targets.
func Aggregate(name string, id uuid.UUID) Option {
	return func(cmd *Command) {
		cmd.AggregateName = name
		cmd.AggregateID = id
	}
}

// New returns a command with the given name and payload.
func New(name string, payload any, opts ...Option) Command {
	cmd := Command{ID: uuid.New(), Name: name, Payload: payload}
	for _, opt := range opts {
		opt(&cmd)
	}
	return cmd
}

// Envelope is the JSON transport form of a command.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	AggregateName string          `json:"aggregateName,omitempty"`
	AggregateID   uuid.UUID       `json:"aggregateId,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Decode decodes a JSON envelope into a command. The payload is decoded into
// the type registered in reg for the command name.
func Decode(reg *codec.Registry, b []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Command{}, fmt.Errorf("decode envelope: %w", err)
	}

	payload, err := reg.Unmarshal(env.Payload, env.Name)
	if err != nil {
		return Command{}, fmt.Errorf("decode payload: %w", err)
	}

	id := env.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return Command{
		ID:            id,
		Name:          env.Name,
		Payload:       payload,
		AggregateName: env.AggregateName,
		AggregateID:   env.AggregateID,
	}, nil
}

// PayloadOf returns the payload of cmd as P, or an error if the payload has
// another type.
func PayloadOf[P any](cmd Command) (P, error) {
	p, ok := cmd.Payload.(P)
	if !ok {
		var zero P
		return zero, fmt.Errorf("%q command: cannot use payload of type %T as %T", cmd.Name, cmd.Payload, zero)
	}
	return p, nil
}
