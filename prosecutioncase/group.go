package prosecutioncase

import (
	"github.com/courtflow/progression/aggregate"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// GroupAggregateName is the name of the group case aggregate.
const GroupAggregateName = "progression.group-case"

// GroupCase tracks the member cases of a case group. The status of the master
// case follows the statuses of all members.
type GroupCase struct {
	*aggregate.Base

	initiated bool
	concluded bool
	master    uuid.UUID
	members   []uuid.UUID
	statuses  map[uuid.UUID]court.CaseStatus
}

// NewGroup returns the group case with the given id.
func NewGroup(id uuid.UUID) *GroupCase {
	return &GroupCase{
		Base:     aggregate.New(GroupAggregateName, id),
		statuses: make(map[uuid.UUID]court.CaseStatus),
	}
}

// Master returns the id of the master case.
func (g *GroupCase) Master() uuid.UUID {
	return g.master
}

// Members returns the ids of the member cases.
func (g *GroupCase) Members() []uuid.UUID {
	return slices.Clone(g.members)
}

// MemberStatus returns the recorded status of a member case.
func (g *GroupCase) MemberStatus(caseID uuid.UUID) court.CaseStatus {
	return g.statuses[caseID]
}

// Concluded reports whether all members of the group became INACTIVE.
func (g *GroupCase) Concluded() bool {
	return g.concluded
}

// Initiate initiates the group with its master and member cases. The master
// case is a member of the group. Initiating an initiated group does nothing.
func (g *GroupCase) Initiate(masterCaseID uuid.UUID, memberCaseIDs []uuid.UUID) error {
	if err := command.Validate(InitiateGroupCmd).
		RequireID("masterCaseId", masterCaseID).
		Require(len(memberCaseIDs) > 0, "memberCaseIds", "must not be empty").
		Err(); err != nil {
		return err
	}

	if g.initiated {
		return nil
	}

	members := make([]uuid.UUID, 0, len(memberCaseIDs)+1)
	members = append(members, masterCaseID)
	for _, id := range memberCaseIDs {
		if id != uuid.Nil && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}

	aggregate.Next(g, GroupCasesInitiated, GroupInitiatedData{
		GroupID:       g.AggregateID(),
		MasterCaseID:  masterCaseID,
		MemberCaseIDs: members,
	})

	return nil
}

// RecordMemberStatus records the status of a member case. Once every member
// is INACTIVE, the status of the group is updated to INACTIVE for the master
// case.
func (g *GroupCase) RecordMemberStatus(caseID uuid.UUID, status court.CaseStatus) error {
	if err := command.Validate(RecordMemberStatusCmd).
		RequireID("prosecutionCaseId", caseID).
		Require(status != "", "caseStatus", "must not be empty").
		Require(!g.initiated || slices.Contains(g.members, caseID), "prosecutionCaseId", "must be a member of the group").
		Err(); err != nil {
		return err
	}

	if !g.initiated || g.statuses[caseID] == status {
		return nil
	}

	aggregate.Next(g, MemberCaseStatusRecorded, MemberStatusData{GroupID: g.AggregateID(), CaseID: caseID, Status: status})

	if !g.concluded && g.allInactive() {
		aggregate.Next(g, GroupCaseStatusUpdated, GroupStatusData{
			GroupID:      g.AggregateID(),
			MasterCaseID: g.master,
			Status:       court.CaseInactive,
		})
	}

	return nil
}

func (g *GroupCase) allInactive() bool {
	for _, id := range g.members {
		if g.statuses[id] != court.CaseInactive {
			return false
		}
	}
	return len(g.members) > 0
}

// ApplyEvent implements aggregate.Aggregate.
func (g *GroupCase) ApplyEvent(evt event.Event) {
	switch evt.Name() {
	case GroupCasesInitiated:
		data := event.Cast[GroupInitiatedData](evt)
		g.initiated = true
		g.master = data.MasterCaseID
		g.members = data.MemberCaseIDs
	case MemberCaseStatusRecorded:
		data := event.Cast[MemberStatusData](evt)
		g.statuses[data.CaseID] = data.Status
	case GroupCaseStatusUpdated:
		g.concluded = true
	}
}
