package rootcmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/courtflow/progression/cli/internal/clifactory"
	"github.com/courtflow/progression/cli/internal/cmd/dispatchcmd"
	"github.com/courtflow/progression/cli/internal/cmd/streamcmd"
	"github.com/spf13/cobra"
)

// New returns the root command.
func New(f *clifactory.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "progression",
		Short:         "Court progression CLI",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: heredoc.Doc(`
			Dispatch commands to the progression aggregates and inspect their
			event streams. The backends are configured through the environment:

				PROGRESSION_BACKEND      memory, postgres or mongo
				POSTGRES_EVENTSTORE      PostgreSQL connection string
				MONGO_URL                MongoDB connection string
				NATS_URL                 publish recorded events over NATS
				REDIS_URL                cache reference data in Redis
		`),
		Example: heredoc.Doc(`
			$ progression dispatch result.json
			$ progression replay hearing 8b9b1f4e-6d43-4c55-9a1e-3b7a7c3f5d21
			$ progression register-id 8b9b1f4e-6d43-4c55-9a1e-3b7a7c3f5d21 2024-03-04
		`),
	}

	cmd.PersistentFlags().StringVar(
		(*string)(&f.Config.Backend),
		"backend",
		string(f.Config.Backend),
		"Event log backend (memory, postgres or mongo)",
	)

	cmd.PersistentFlags().Uint64Var(
		&f.Config.MaxRetries,
		"max-retries",
		f.Config.MaxRetries,
		"Retries of a command after a version conflict",
	)

	cmd.AddCommand(
		dispatchcmd.New(f),
		streamcmd.Replay(f),
		streamcmd.RegisterID(),
	)

	return cmd
}
