package clifactory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/courtflow/progression/internal/config"
	"go.uber.org/zap"
)

// ErrInvalidConfig is returned when the environment does not hold a valid
// configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Factory is used by commands to provide common configuration.
type Factory struct {
	Context context.Context
	Config  config.Config
	Log     *zap.Logger
	Stdin   io.Reader

	mux sync.Mutex
	app *config.App
}

// Option is a Factory option.
type Option func(*Factory)

// Context returns an Option that sets the Context of a Factory.
func Context(ctx context.Context) Option {
	return func(f *Factory) {
		f.Context = ctx
	}
}

// Config returns an Option that sets the configuration of a Factory.
func Config(cfg config.Config) Option {
	return func(f *Factory) {
		f.Config = cfg
	}
}

// Logger returns an Option that sets the logger of a Factory.
func Logger(log *zap.Logger) Option {
	return func(f *Factory) {
		f.Log = log
	}
}

// Stdin returns an Option that sets the reader that commands read from when
// no input file is given.
func Stdin(r io.Reader) Option {
	return func(f *Factory) {
		f.Stdin = r
	}
}

// New returns a new Factory.
func New(opts ...Option) *Factory {
	f := Factory{Config: config.Config{Backend: config.Memory, MaxRetries: 3}}
	for _, opt := range opts {
		opt(&f)
	}
	if f.Context == nil {
		f.Context = context.Background()
	}
	if f.Log == nil {
		f.Log = zap.NewNop()
	}
	if f.Stdin == nil {
		f.Stdin = os.Stdin
	}
	return &f
}

// App returns the application built from the configuration of the Factory.
// The application is set up on first use and shared by all later calls.
func (f *Factory) App() (*config.App, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if f.app != nil {
		return f.app, nil
	}

	if err := f.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	app, err := f.Config.Setup(f.Context, f.Log)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	f.app = app

	return app, nil
}

// Close closes the application if it was set up.
func (f *Factory) Close() error {
	f.mux.Lock()
	defer f.mux.Unlock()

	if f.app == nil {
		return nil
	}

	err := f.app.Close(f.Context)
	f.app = nil

	return err
}
