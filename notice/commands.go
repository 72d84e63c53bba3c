package notice

import (
	"context"
	"time"

	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

// GenerateCmd is the command to generate a notice.
const GenerateCmd = "progression.command.generate-notice"

// GeneratePayload is the payload of GenerateCmd.
type GeneratePayload struct {
	Kind        Kind                  `json:"kind"`
	Case        court.ProsecutionCase `json:"prosecutionCase"`
	DefendantID uuid.UUID             `json:"defendantId"`
	TriggerDate time.Time             `json:"triggerDate"`
}

// Generate returns the command to generate a notice of the given kind for a
// defendant of a prosecution case.
func Generate(kind Kind, pc court.ProsecutionCase, defendantID uuid.UUID, date time.Time) command.Command {
	return command.New(GenerateCmd, GeneratePayload{
		Kind:        kind,
		Case:        pc,
		DefendantID: defendantID,
		TriggerDate: date,
	}, command.Aggregate(AggregateName, pc.ID))
}

// RegisterCommands registers the notice commands into a registry.
func RegisterCommands(r *codec.Registry) {
	codec.Register[GeneratePayload](r, GenerateCmd)
}

// HandleCommands registers the handlers of the notice commands.
func HandleCommands(r command.Registerer, repo *repository.Repository) {
	notices := repository.Typed(repo, New)

	r.Handle(GenerateCmd, command.AggregateHandler(notices, "prosecutionCase.id",
		func(p GeneratePayload) uuid.UUID { return p.Case.ID },
		func(_ context.Context, n *Notices, p GeneratePayload) error {
			_, err := n.Generate(p.Kind, p.Case, p.DefendantID, p.TriggerDate)
			return err
		}))
}
