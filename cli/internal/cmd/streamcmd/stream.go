// Package streamcmd provides the commands that inspect event streams.
package streamcmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/courtflow/progression/application"
	"github.com/courtflow/progression/cli/internal/cliargs"
	"github.com/courtflow/progression/cli/internal/clifactory"
	"github.com/courtflow/progression/cli/internal/cliout"
	"github.com/courtflow/progression/event"
	"github.com/courtflow/progression/hearing"
	"github.com/courtflow/progression/notice"
	"github.com/courtflow/progression/prosecutioncase"
	"github.com/courtflow/progression/register"
	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
)

// Aggregates maps the short names accepted by the replay command to
// aggregate names.
var Aggregates = map[string]string{
	"application": application.AggregateName,
	"hearing":     hearing.AggregateName,
	"case":        prosecutioncase.AggregateName,
	"group":       prosecutioncase.GroupAggregateName,
	"register":    register.AggregateName,
	"notice":      notice.AggregateName,
}

// RegisterID returns the register-id command.
func RegisterID() *cobra.Command {
	return &cobra.Command{
		Use:   "register-id <court-centre-id> <date>",
		Short: "Print the stream id of a court register",
		Long: heredoc.Doc(`
			Print the id of the court register stream of a court centre on a
			register date. The date must be formatted as YYYY-MM-DD.
		`),
		Example: heredoc.Doc(`
			$ progression register-id 8b9b1f4e-6d43-4c55-9a1e-3b7a7c3f5d21 2024-03-04
		`),
		Args: cliargs.ExactlyN(2, "Must provide a court centre id and a register date."),
		RunE: func(cmd *cobra.Command, args []string) error {
			centre, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse court centre id: %w", err)
			}

			date, err := time.Parse(register.DateLayout, args[1])
			if err != nil {
				return fmt.Errorf("parse register date: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), register.StreamID(centre, date))

			return nil
		},
	}
}

// Replay returns the replay command.
func Replay(f *clifactory.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <aggregate> <id>",
		Short: "Print the events of an aggregate stream",
		Long: heredoc.Docf(`
			Load the event stream of an aggregate from the configured backend and
			print its events in order.

			The aggregate is either a full aggregate name or one of:
			%s
		`, strings.Join(shortNames(), ", ")),
		Example: heredoc.Doc(`
			$ progression replay hearing 8b9b1f4e-6d43-4c55-9a1e-3b7a7c3f5d21
			$ progression replay progression.application 8b9b1f4e-6d43-4c55-9a1e-3b7a7c3f5d21
		`),
		Args: cliargs.ExactlyN(2, "Must provide an aggregate and an aggregate id."),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if full, ok := Aggregates[name]; ok {
				name = full
			}

			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("parse aggregate id: %w", err)
			}

			app, err := f.App()
			if err != nil {
				return err
			}

			events, err := app.Store.Load(f.Context, event.Ref{Name: name, ID: id})
			if err != nil {
				return fmt.Errorf("load stream: %w", err)
			}

			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), aurora.Yellow(fmt.Sprintf("Stream %s(%s) has no events.", name, id)).String())
				return nil
			}

			return cliout.Events(cmd.OutOrStdout(), events)
		},
	}
}

func shortNames() []string {
	return []string{"application", "hearing", "case", "group", "register", "notice"}
}
