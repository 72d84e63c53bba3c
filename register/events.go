package register

import (
	"time"

	"github.com/courtflow/progression/codec"
	"github.com/google/uuid"
)

const (
	CourtRegisterRecorded   = "progression.event.court-register-recorded"
	CourtRegisterGenerated  = "progression.event.court-register-generated"
	CourtRegisterNotified   = "progression.event.court-register-notified"
	CourtRegisterNotifiedV2 = "progression.event.court-register-notified-v2"
)

// RecordedData is the payload of CourtRegisterRecorded events.
type RecordedData struct {
	CourtCentreID uuid.UUID `json:"courtCentreId"`
	RegisterDate  time.Time `json:"registerDate"`
	Request       Request   `json:"courtRegisterRequest"`
}

// GeneratedData is the payload of CourtRegisterGenerated events.
type GeneratedData struct {
	CourtCentreID uuid.UUID   `json:"courtCentreId"`
	RegisterDate  time.Time   `json:"registerDate"`
	RequestIDs    []uuid.UUID `json:"courtRegisterRequestIds"`
}

// NotifiedData is the payload of legacy CourtRegisterNotified events. Only
// the email addresses of the recipients were recorded.
type NotifiedData struct {
	CourtCentreID uuid.UUID `json:"courtCentreId"`
	RegisterDate  time.Time `json:"registerDate"`
	Recipients    []string  `json:"recipients"`
}

// NotifiedV2Data is the payload of CourtRegisterNotifiedV2 events.
type NotifiedV2Data struct {
	CourtCentreID uuid.UUID   `json:"courtCentreId"`
	RegisterDate  time.Time   `json:"registerDate"`
	Recipients    []Recipient `json:"recipients"`
}

// RegisterEvents registers the court register events into a registry.
func RegisterEvents(r *codec.Registry) {
	codec.Register[RecordedData](r, CourtRegisterRecorded)
	codec.Register[GeneratedData](r, CourtRegisterGenerated)
	codec.Register[NotifiedData](r, CourtRegisterNotified)
	codec.Register[NotifiedV2Data](r, CourtRegisterNotifiedV2)
}
