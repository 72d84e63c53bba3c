package nats

import (
	"github.com/nats-io/nats.go"
)

// SubjectFunc returns an option that specifies how the NATS subjects for
// event names are generated.
func SubjectFunc(fn func(eventName string) string) EventBusOption {
	return func(bus *EventBus) {
		bus.subjectFunc = fn
	}
}

// SubjectPrefix returns an option that prefixes the default subject of every
// event with prefix.
//
//	bus := NewEventBus(reg, SubjectPrefix("court."))
//	// "progression.event.hearing-resulted" is published to
//	// "court_progression_event_hearing-resulted".
func SubjectPrefix(prefix string) EventBusOption {
	return SubjectFunc(func(eventName string) string {
		return replaceDots(prefix + eventName)
	})
}

// URL returns an Option that sets the connection URL to the NATS server. If no
// URL is specified, the environment variable "NATS_URL" will be used as the
// connection URL.
func URL(url string) EventBusOption {
	return func(bus *EventBus) {
		bus.url = url
	}
}

// Conn returns an Option that provides the underlying *nats.Conn for the
// EventBus.
func Conn(conn *nats.Conn) EventBusOption {
	return func(bus *EventBus) {
		bus.conn = conn
	}
}

// NATSOpts returns an Option that passes opts to nats.Connect.
func NATSOpts(opts ...nats.Option) EventBusOption {
	return func(bus *EventBus) {
		bus.natsOpts = append(bus.natsOpts, opts...)
	}
}
