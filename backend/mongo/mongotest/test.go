// Package mongotest creates MongoDB event stores with isolated databases for
// integration tests.
package mongotest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/courtflow/progression/backend/mongo"
	"github.com/courtflow/progression/codec"
)

// NewEventStore returns a Store from the given registry and Options, but adds
// an Option that ensures a unique database name for every call.
func NewEventStore(reg *codec.Registry, opts ...mongo.EventStoreOption) *mongo.EventStore {
	return mongo.NewEventStore(reg, append(
		[]mongo.EventStoreOption{mongo.Database(UniqueName("progression_"))},
		opts...,
	)...)
}

// UniqueName appends a random hex string to prefix.
func UniqueName(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s%s", prefix, hex.EncodeToString(b))
}
