// Package codec maps event and command names to their payload types, so that
// payloads can be stored and transported as JSON and decoded back into typed
// values.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned when trying to decode data for a name that
	// hasn't been registered.
	ErrNotFound = errors.New("encoding not found. forgot to register?")
)

// A Registry decodes JSON payloads into the type that was registered for
// their name.
//
//	reg := codec.New()
//	codec.Register[ProceedingsInitiatedData](reg, "progression.event.proceedings-initiated")
//	b, err := reg.Marshal(data)
//	decoded, err := reg.Unmarshal(b, "progression.event.proceedings-initiated")
type Registry struct {
	mux      sync.RWMutex
	decoders map[string]func([]byte) (any, error)
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{decoders: make(map[string]func([]byte) (any, error))}
}

// Register registers T as the payload type for name. Registering the same
// name twice replaces the previous registration.
func Register[T any](r *Registry, name string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.decoders[name] = func(b []byte) (any, error) {
		var data T
		if len(b) == 0 {
			return data, nil
		}
		if err := json.Unmarshal(b, &data); err != nil {
			return data, err
		}
		return data, nil
	}
}

// Marshal encodes data as JSON.
func (r *Registry) Marshal(data any) ([]byte, error) {
	return json.Marshal(data)
}

// Unmarshal decodes b into the payload type registered for name. If no type
// was registered, an error that unwraps to ErrNotFound is returned.
func (r *Registry) Unmarshal(b []byte, name string) (any, error) {
	r.mux.RLock()
	dec, ok := r.decoders[name]
	r.mux.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get decoder: %w [name=%v]", ErrNotFound, name)
	}

	data, err := dec(b)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}

	return data, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	names := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
