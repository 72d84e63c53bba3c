// Package prosecutioncase implements the prosecution case and group case
// aggregates.
package prosecutioncase

import (
	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// AggregateName is the name of the prosecution case aggregate.
const AggregateName = "progression.prosecution-case"

// Case is a prosecution case.
type Case struct {
	*aggregate.Base

	created   bool
	snapshot  court.ProsecutionCase
	status    court.CaseStatus
	concluded map[uuid.UUID]bool
	order     []uuid.UUID
}

// New returns the prosecution case with the given id.
func New(id uuid.UUID) *Case {
	return &Case{
		Base:      aggregate.New(AggregateName, id),
		concluded: make(map[uuid.UUID]bool),
	}
}

// Created reports whether the case was created.
func (c *Case) Created() bool {
	return c.created
}

// Status returns the status of the case.
func (c *Case) Status() court.CaseStatus {
	return c.status
}

// Concluded reports whether the proceedings against a defendant of the case
// are concluded.
func (c *Case) Concluded(defendantID uuid.UUID) bool {
	return c.concluded[defendantID]
}

// Snapshot returns the case as it was created.
func (c *Case) Snapshot() court.ProsecutionCase {
	return c.snapshot
}

// Create creates the case. Creating a created case does nothing.
func (c *Case) Create(pc court.ProsecutionCase) error {
	if err := command.Validate(CreateCmd).
		RequireID("prosecutionCase.id", pc.ID).
		Require(pc.ID == c.AggregateID(), "prosecutionCase.id", "must match the case stream").
		Err(); err != nil {
		return err
	}

	if c.created {
		return nil
	}

	aggregate.Next(c, CaseCreated, CreatedData{Case: pc})

	return nil
}

// ApplyHearingResult merges the proceedings-concluded flags of a case that was
// resulted at a hearing into the case. Flags only ever change from false to
// true. Unless the hearing was a group proceeding, the case becomes INACTIVE
// once every defendant of the case is concluded or a case-level FINAL result
// is attached. The status of the resulted case itself is not taken over, as a
// hearing may list only some of the defendants of a case.
func (c *Case) ApplyHearingResult(hearingID uuid.UUID, resulted court.ProsecutionCase, hearingResults []court.DefendantJudicialResult, groupProceedings bool) error {
	if err := command.Validate(ApplyHearingResultCmd).
		RequireID("hearingId", hearingID).
		Require(resulted.ID == c.AggregateID(), "prosecutionCase.id", "must match the case stream").
		Err(); err != nil {
		return err
	}

	if changed, flags := c.mergeConcluded(resulted.Defendants); changed {
		aggregate.Next(c, DefendantsProceedingsConcludedChanged, ConcludedChangedData{
			CaseID:     c.AggregateID(),
			HearingID:  hearingID,
			Defendants: flags,
		})
	}

	if groupProceedings {
		return nil
	}

	if status := c.ResultedStatus(resulted, hearingResults); status != c.status {
		aggregate.Next(c, CaseStatusUpdated, StatusUpdatedData{CaseID: c.AggregateID(), Status: status})
	}

	return nil
}

// ResultedStatus returns the status the case has after a hearing resulted
// it: INACTIVE if every defendant of the case is concluded or a case-level
// FINAL result is attached, otherwise the current status.
func (c *Case) ResultedStatus(resulted court.ProsecutionCase, hearingResults []court.DefendantJudicialResult) court.CaseStatus {
	if court.HasCaseLevelFinal(resulted, hearingResults) || c.allConcluded() {
		return court.CaseInactive
	}
	return c.status
}

func (c *Case) mergeConcluded(defendants []court.Defendant) (bool, []DefendantConcluded) {
	var changed bool
	next := make(map[uuid.UUID]bool, len(c.concluded))
	order := slices.Clone(c.order)
	for id, v := range c.concluded {
		next[id] = v
	}

	for _, d := range defendants {
		prev, known := next[d.ID]
		if !known {
			order = append(order, d.ID)
		}
		if d.ProceedingsConcluded && !prev {
			changed = true
		}
		next[d.ID] = prev || d.ProceedingsConcluded
	}

	flags := make([]DefendantConcluded, len(order))
	for i, id := range order {
		flags[i] = DefendantConcluded{DefendantID: id, ProceedingsConcluded: next[id]}
	}

	return changed, flags
}

func (c *Case) allConcluded() bool {
	if len(c.order) == 0 {
		return false
	}
	for _, id := range c.order {
		if !c.concluded[id] {
			return false
		}
	}
	return true
}

// UpdateStatus sets the status of the case.
func (c *Case) UpdateStatus(status court.CaseStatus) error {
	if err := command.Validate(UpdateStatusCmd).Require(status != "", "caseStatus", "must not be empty").Err(); err != nil {
		return err
	}

	if status == c.status {
		return nil
	}

	aggregate.Next(c, CaseStatusUpdated, StatusUpdatedData{CaseID: c.AggregateID(), Status: status})

	return nil
}

// ApplyEvent implements aggregate.Aggregate.
func (c *Case) ApplyEvent(evt event.Event) {
	switch evt.Name() {
	case CaseCreated:
		c.caseCreated(event.Cast[CreatedData](evt).Case)
	case DefendantsProceedingsConcludedChanged:
		for _, d := range event.Cast[ConcludedChangedData](evt).Defendants {
			c.track(d.DefendantID)
			c.concluded[d.DefendantID] = c.concluded[d.DefendantID] || d.ProceedingsConcluded
		}
	case CaseStatusUpdated:
		c.status = event.Cast[StatusUpdatedData](evt).Status
	}
}

func (c *Case) track(defendantID uuid.UUID) {
	if _, ok := c.concluded[defendantID]; !ok {
		c.order = append(c.order, defendantID)
		c.concluded[defendantID] = false
	}
}

func (c *Case) caseCreated(pc court.ProsecutionCase) {
	c.created = true
	c.snapshot = pc
	c.status = pc.CaseStatus
	for _, d := range pc.Defendants {
		c.track(d.ID)
		c.concluded[d.ID] = c.concluded[d.ID] || d.ProceedingsConcluded
	}
}
