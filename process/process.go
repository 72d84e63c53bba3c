// Package process runs the reactions that carry the effects of committed
// events over to other aggregates. Every effect is an independent unit of
// work against its own stream; effects that fail leave the effects that
// succeeded committed.
package process

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtflow/progression/aggregate/repository"
	"github.com/courtflow/progression/application"
	"github.com/courtflow/progression/command"
	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/event"
	"github.com/courtflow/progression/hearing"
	"github.com/courtflow/progression/notice"
	"github.com/courtflow/progression/prosecutioncase"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Manager reacts to the events of the progression aggregates.
type Manager struct {
	apps     *repository.TypedRepository[*application.Application]
	hearings *repository.TypedRepository[*hearing.Hearing]
	cases    *repository.TypedRepository[*prosecutioncase.Case]
	groups   *repository.TypedRepository[*prosecutioncase.GroupCase]
	notices  *repository.TypedRepository[*notice.Notices]
	log      *zap.Logger
}

// Option is a Manager option.
type Option func(*Manager)

// Logger returns an Option that sets the logger of the Manager.
func Logger(log *zap.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// New returns a Manager that runs its effects against the aggregates of repo.
func New(repo *repository.Repository, opts ...Option) *Manager {
	m := &Manager{
		apps:     repository.Typed(repo, application.New),
		hearings: repository.Typed(repo, hearing.New),
		cases:    repository.Typed(repo, prosecutioncase.New),
		groups:   repository.Typed(repo, prosecutioncase.NewGroup),
		notices:  repository.Typed(repo, notice.New),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register registers the reactions of the Manager.
func (m *Manager) Register(r command.Registerer) {
	r.React(application.ProceedingsInitiated, m.listOrRefer)
	r.React(application.InitiateCourtHearingAfterSummonsApproved, m.initiateSummonsHearing)
	r.React(hearing.ProsecutionCasesResulted, m.resultCases)
	r.React(hearing.ProsecutionCasesResulted, m.resultNotices)
	r.React(hearing.ApplicationsResulted, m.resultApplications)
	r.React(hearing.ApplicationDefendantUpdated, m.updateApplicationDefendant)
	r.React(prosecutioncase.GroupCaseStatusUpdated, m.updateMasterCase)
}

// listOrRefer lists or refers applications that don't need a summons
// approval as soon as their proceedings are initiated.
func (m *Manager) listOrRefer(ctx context.Context, evt event.Event) ([]event.Event, error) {
	data := event.Cast[application.ProceedingsData](evt)
	if data.SummonsApprovalRequired {
		return nil, nil
	}

	return m.apps.Use(ctx, data.Application.ID, func(a *application.Application) error {
		a.ListOrRefer()
		return nil
	})
}

// initiateSummonsHearing initiates the hearing requested for an application
// whose summons was approved and links the application to it.
func (m *Manager) initiateSummonsHearing(ctx context.Context, evt event.Event) ([]event.Event, error) {
	data := event.Cast[application.CourtHearingInitiatedData](evt)
	h := summonsHearing(data)

	initiated, err := m.hearings.Use(ctx, h.ID, func(a *hearing.Hearing) error {
		return a.Initiate(h)
	})
	if err != nil {
		return nil, fmt.Errorf("initiate hearing: %w [hearing=%s]", err, h.ID)
	}

	linked, err := m.apps.Use(ctx, data.ApplicationID, func(a *application.Application) error {
		return a.LinkHearing(h.ID)
	})
	if err != nil {
		return initiated, fmt.Errorf("link hearing: %w [application=%s, hearing=%s]", err, data.ApplicationID, h.ID)
	}

	return append(initiated, linked...), nil
}

func summonsHearing(data application.CourtHearingInitiatedData) court.Hearing {
	req := data.Hearing
	h := court.Hearing{
		ID:                req.ID,
		Type:              req.HearingType,
		JurisdictionType:  req.JurisdictionType,
		CourtCentre:       req.CourtCentre,
		JudiciaryRoles:    req.JudiciaryRoles,
		CourtApplications: []court.CourtApplication{data.Application},
	}
	if !req.EarliestStartDateTime.IsZero() {
		h.HearingDays = []court.HearingDay{{
			SittingDay:            req.EarliestStartDateTime.UTC().Format(time.RFC3339),
			ListedDurationMinutes: req.EstimatedMinutes,
		}}
	}
	return h
}

// resultCases applies the results of a hearing to its prosecution cases and,
// for group proceedings, records the resulting member statuses in the groups
// of the cases. A member status is derived from the case stream, which knows
// all defendants of the case, not only those listed at the hearing.
func (m *Manager) resultCases(ctx context.Context, evt event.Event) ([]event.Event, error) {
	data := event.Cast[hearing.CasesResultedData](evt)
	h := data.Hearing
	statuses := make([]court.CaseStatus, len(h.ProsecutionCases))

	events, err := fanOut(ctx, h.ProsecutionCases, func(ctx context.Context, i int, pc court.ProsecutionCase) ([]event.Event, error) {
		events, err := m.cases.Use(ctx, pc.ID, func(c *prosecutioncase.Case) error {
			if err := c.ApplyHearingResult(h.ID, pc, h.DefendantJudicialResults, h.IsGroupProceedings); err != nil {
				return err
			}
			statuses[i] = c.ResultedStatus(pc, h.DefendantJudicialResults)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("apply hearing result: %w [case=%s]", err, pc.ID)
		}
		return events, nil
	})
	if err != nil || !h.IsGroupProceedings {
		return events, err
	}

	var errs []error
	for i, pc := range h.ProsecutionCases {
		if pc.GroupID == uuid.Nil || statuses[i] == "" {
			continue
		}

		recorded, err := m.groups.Use(ctx, pc.GroupID, func(g *prosecutioncase.GroupCase) error {
			return g.RecordMemberStatus(pc.ID, statuses[i])
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("record member status: %w [group=%s, case=%s]", err, pc.GroupID, pc.ID))
			continue
		}
		events = append(events, recorded...)
	}

	return events, errors.Join(errs...)
}

// updateMasterCase updates the status of the master case of a group.
func (m *Manager) updateMasterCase(ctx context.Context, evt event.Event) ([]event.Event, error) {
	data := event.Cast[prosecutioncase.GroupStatusData](evt)
	return m.cases.Use(ctx, data.MasterCaseID, func(c *prosecutioncase.Case) error {
		return c.UpdateStatus(data.Status)
	})
}

// resultNotices requests the result-list notices of the defendants of a
// resulted hearing.
func (m *Manager) resultNotices(ctx context.Context, evt event.Event) ([]event.Event, error) {
	data := event.Cast[hearing.CasesResultedData](evt)
	date := hearingDate(data.Hearing, evt.Time())

	return fanOut(ctx, data.Hearing.ProsecutionCases, func(ctx context.Context, _ int, pc court.ProsecutionCase) ([]event.Event, error) {
		events, err := m.notices.Use(ctx, pc.ID, func(n *notice.Notices) error {
			for _, d := range pc.Defendants {
				if d.ID == uuid.Nil {
					continue
				}
				outcome, err := n.Generate(notice.ResultList, pc, d.ID, date)
				if err != nil {
					return err
				}
				m.log.Debug("result notice",
					zap.Stringer("case", pc.ID),
					zap.Stringer("defendant", d.ID),
					zap.Stringer("outcome", outcome),
				)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("generate result notices: %w [case=%s]", err, pc.ID)
		}
		return events, nil
	})
}

// resultApplications records the results of the applications of a hearing.
func (m *Manager) resultApplications(ctx context.Context, evt event.Event) ([]event.Event, error) {
	data := event.Cast[hearing.ResultedData](evt)

	return fanOut(ctx, data.Hearing.CourtApplications, func(ctx context.Context, _ int, app court.CourtApplication) ([]event.Event, error) {
		events, err := m.apps.Use(ctx, app.ID, func(a *application.Application) error {
			if err := a.HearingResultedUpdate(app); err != nil {
				return err
			}
			return a.LinkHearing(data.Hearing.ID)
		})
		if err != nil {
			return nil, fmt.Errorf("update resulted application: %w [application=%s]", err, app.ID)
		}
		return events, nil
	})
}

// updateApplicationDefendant carries a defendant update of an application of
// a hearing over to the application.
func (m *Manager) updateApplicationDefendant(ctx context.Context, evt event.Event) ([]event.Event, error) {
	data := event.Cast[hearing.ApplicationDefendantUpdatedData](evt)
	return m.apps.Use(ctx, data.ApplicationID, func(a *application.Application) error {
		a.UpdateDefendant(data.Defendant)
		return nil
	})
}

// hearingDate returns the first sitting day of h, or fallback.
func hearingDate(h court.Hearing, fallback time.Time) time.Time {
	for _, day := range h.HearingDays {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, day.SittingDay); err == nil {
				return t
			}
		}
	}
	return fallback
}

// fanOut runs fn for every item and its index concurrently. The committed
// events are returned in the order of items together with the joined errors.
func fanOut[T any](ctx context.Context, items []T, fn func(context.Context, int, T) ([]event.Event, error)) ([]event.Event, error) {
	results := make([][]event.Event, len(items))
	errs := make([]error, len(items))

	var group errgroup.Group
	for i, item := range items {
		i, item := i, item
		group.Go(func() error {
			results[i], errs[i] = fn(ctx, i, item)
			return nil
		})
	}
	group.Wait()

	var events []event.Event
	for _, r := range results {
		events = append(events, r...)
	}

	return events, errors.Join(errs...)
}
