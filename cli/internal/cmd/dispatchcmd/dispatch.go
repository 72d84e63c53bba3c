// Package dispatchcmd provides the dispatch command.
package dispatchcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/courtflow/progression/cli/internal/clifactory"
	"github.com/courtflow/progression/cli/internal/cliout"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/internal/config"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
)

// New returns the dispatch command.
func New(f *clifactory.Factory) *cobra.Command {
	var cfg struct {
		quiet bool
	}

	cmd := &cobra.Command{
		Use:   "dispatch [<file>]",
		Short: "Dispatch a command",
		Long: heredoc.Doc(`
			Dispatch a JSON command envelope against the configured backend and
			print the events it produced, including the events of the reactions
			it triggered.

			The envelope is read from the given file, or from stdin if no file
			is given:

				{
					"name": "progression.command.process-hearing-results",
					"payload": { ... }
				}
		`),
		Example: heredoc.Doc(`
			Dispatch the command in "result.json":

			$ progression dispatch result.json

			Dispatch a command from stdin:

			$ cat result.json | progression dispatch
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := read(f, args)
			if err != nil {
				return err
			}

			c, err := command.Decode(config.Commands(), b)
			if err != nil {
				return err
			}

			app, err := f.App()
			if err != nil {
				return err
			}

			events, err := app.Dispatcher.Dispatch(f.Context, c)
			if err != nil {
				return fmt.Errorf("dispatch %q: %w", c.Name, err)
			}

			if !cfg.quiet {
				if err := cliout.Events(cmd.OutOrStdout(), events); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), aurora.Green(fmt.Sprintf("Command dispatched. %d event(s) recorded.", len(events))).String())

			return nil
		},
	}

	cmd.Flags().BoolVarP(
		&cfg.quiet, "quiet", "q", false,
		"Don't print the recorded events",
	)

	return cmd
}

func read(f *clifactory.Factory, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(f.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}

	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read command file: %w", err)
	}
	return b, nil
}
