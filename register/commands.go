package register

import (
	"context"
	"time"

	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/command"
	"github.com/google/uuid"
)

const (
	RecordCmd   = "progression.command.record-court-register"
	GenerateCmd = "progression.command.generate-court-register"
	NotifyCmd   = "progression.command.notify-court-register"
)

// RecordPayload is the payload of RecordCmd.
type RecordPayload struct {
	CourtCentreID uuid.UUID `json:"courtCentreId"`
	RegisterDate  time.Time `json:"registerDate"`
	Request       Request   `json:"courtRegisterRequest"`
}

// GeneratePayload is the payload of GenerateCmd.
type GeneratePayload struct {
	CourtCentreID uuid.UUID `json:"courtCentreId"`
	RegisterDate  time.Time `json:"registerDate"`
}

// NotifyPayload is the payload of NotifyCmd.
type NotifyPayload struct {
	CourtCentreID uuid.UUID   `json:"courtCentreId"`
	RegisterDate  time.Time   `json:"registerDate"`
	Recipients    []Recipient `json:"recipients"`
}

// Record returns the command to record a request in the register of a court
// centre.
func Record(courtCentreID uuid.UUID, date time.Time, req Request) command.Command {
	return command.New(RecordCmd, RecordPayload{
		CourtCentreID: courtCentreID,
		RegisterDate:  date,
		Request:       req,
	}, command.Aggregate(AggregateName, StreamID(courtCentreID, date)))
}

// Generate returns the command to generate the register of a court centre.
func Generate(courtCentreID uuid.UUID, date time.Time) command.Command {
	return command.New(GenerateCmd, GeneratePayload{
		CourtCentreID: courtCentreID,
		RegisterDate:  date,
	}, command.Aggregate(AggregateName, StreamID(courtCentreID, date)))
}

// Notify returns the command to notify recipients of the register of a court
// centre.
func Notify(courtCentreID uuid.UUID, date time.Time, recipients ...Recipient) command.Command {
	return command.New(NotifyCmd, NotifyPayload{
		CourtCentreID: courtCentreID,
		RegisterDate:  date,
		Recipients:    recipients,
	}, command.Aggregate(AggregateName, StreamID(courtCentreID, date)))
}

// RegisterCommands registers the court register commands into a registry.
func RegisterCommands(r *codec.Registry) {
	codec.Register[RecordPayload](r, RecordCmd)
	codec.Register[GeneratePayload](r, GenerateCmd)
	codec.Register[NotifyPayload](r, NotifyCmd)
}

// HandleCommands registers the handlers of the court register commands.
func HandleCommands(r command.Registerer, repo *repository.Repository) {
	registers := repository.Typed(repo, New)

	r.Handle(RecordCmd, command.AggregateHandler(registers, "courtCentreId",
		func(p RecordPayload) uuid.UUID { return StreamID(p.CourtCentreID, p.RegisterDate) },
		func(_ context.Context, reg *Register, p RecordPayload) error {
			return reg.Record(p.CourtCentreID, p.RegisterDate, p.Request)
		}))

	r.Handle(GenerateCmd, command.AggregateHandler(registers, "courtCentreId",
		func(p GeneratePayload) uuid.UUID { return StreamID(p.CourtCentreID, p.RegisterDate) },
		func(_ context.Context, reg *Register, p GeneratePayload) error {
			return reg.Generate(p.CourtCentreID, p.RegisterDate)
		}))

	r.Handle(NotifyCmd, command.AggregateHandler(registers, "courtCentreId",
		func(p NotifyPayload) uuid.UUID { return StreamID(p.CourtCentreID, p.RegisterDate) },
		func(_ context.Context, reg *Register, p NotifyPayload) error {
			return reg.Notify(p.CourtCentreID, p.RegisterDate, p.Recipients)
		}))
}
