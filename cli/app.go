package cli

import (
	"github.com/courtflow/progression/cli/internal/clifactory"
	"github.com/courtflow/progression/cli/internal/cmd/rootcmd"
	"github.com/spf13/cobra"
)

// App is the progression CLI application.
type App struct {
	factory *clifactory.Factory
	root    *cobra.Command
}

// New returns the CLI App.
func New(opts ...clifactory.Option) *App {
	f := clifactory.New(opts...)
	return &App{
		factory: f,
		root:    rootcmd.New(f),
	}
}

// Factory returns the CLI Factory.
func (app *App) Factory() *clifactory.Factory {
	return app.factory
}

// Root returns the root command.
func (app *App) Root() *cobra.Command {
	return app.root
}

// Run runs the app and closes the connections it opened.
func (app *App) Run() error {
	err := app.root.Execute()
	if cerr := app.factory.Close(); err == nil {
		err = cerr
	}
	return err
}
