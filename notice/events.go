package notice

import (
	"time"

	"github.com/courtflow/progression/codec"
	"github.com/google/uuid"
)

const (
	NoticeGenerated   = "progression.event.notice-generated"
	NoticeDeactivated = "progression.event.notice-deactivated"
)

// GeneratedData is the payload of NoticeGenerated events.
type GeneratedData struct {
	CaseID      uuid.UUID `json:"prosecutionCaseId"`
	DefendantID uuid.UUID `json:"defendantId"`
	Kind        Kind      `json:"kind"`
	TriggerDate time.Time `json:"triggerDate"`
	Document    string    `json:"document"`
}

// DeactivatedData is the payload of NoticeDeactivated events.
type DeactivatedData struct {
	CaseID      uuid.UUID `json:"prosecutionCaseId"`
	DefendantID uuid.UUID `json:"defendantId"`
	Kind        Kind      `json:"kind"`
	TriggerDate time.Time `json:"triggerDate"`
	Reason      string    `json:"reason"`
}

// RegisterEvents registers the notice events into a registry.
func RegisterEvents(r *codec.Registry) {
	codec.Register[GeneratedData](r, NoticeGenerated)
	codec.Register[DeactivatedData](r, NoticeDeactivated)
}
