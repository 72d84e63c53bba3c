package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courtflow/progression/court"
	"github.com/courtflow/progression/refdata"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SuspendedSentenceActivationTypeID is the judicial result type of court
// orders that activate a suspended sentence.
var SuspendedSentenceActivationTypeID = uuid.MustParse("8b1cff00-a456-40da-9ce4-f11c20959084")

const (
	activationWording   = "Activation of a suspended sentence order. Original CaseURN: %s, Original code : %s, Original details: %s"
	resentencingWording = "Original CaseURN: %s, %s Original code : %s, Original details: %s"
)

// Proceedings is the request to initiate or edit the proceedings of an
// application.
type Proceedings struct {
	Application             court.CourtApplication     `json:"courtApplication"`
	CourtHearing            *court.CourtHearingRequest `json:"courtHearing,omitempty"`
	BoxHearing              *court.BoxHearingRequest   `json:"boxHearing,omitempty"`
	SummonsApprovalRequired bool                       `json:"summonsApprovalRequired"`
}

// Enricher completes the application of a Proceedings request with reference
// data before it is recorded. Lookup failures are logged and leave the
// affected fields unset.
type Enricher struct {
	lookup refdata.Lookup
	query  refdata.Query
	log    *zap.Logger
	now    func() time.Time
}

// EnricherOption is an Enricher option.
type EnricherOption func(*Enricher)

// EnricherLogger returns an EnricherOption that sets the logger.
func EnricherLogger(log *zap.Logger) EnricherOption {
	return func(e *Enricher) {
		e.log = log
	}
}

// Clock returns an EnricherOption that sets the time source used for the
// updated-on timestamps of parties.
func Clock(now func() time.Time) EnricherOption {
	return func(e *Enricher) {
		e.now = now
	}
}

// NewEnricher returns an Enricher that resolves prosecutors using lookup and
// prosecution cases using query.
func NewEnricher(lookup refdata.Lookup, query refdata.Query, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		lookup: lookup,
		query:  query,
		log:    zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns the application of req with third parties added for case
// prosecutors, prosecutor details resolved, court order offences titled and
// reworded, party changes timestamped and the future summons hearing
// populated.
func (e *Enricher) Enrich(ctx context.Context, req Proceedings) court.CourtApplication {
	app := req.Application

	app.ThirdParties = withCaseProsecutors(app)
	app = e.resolveProsecutors(ctx, app)
	app.CourtOrder = e.offenceTitles(ctx, app.CourtOrder)
	app.CourtOrder = regenerateWording(app)
	app = e.markUpdatedParties(ctx, app)
	app.FutureSummonsHearing = futureSummonsHearing(req)

	return app
}

// withCaseProsecutors returns the third parties of app, preceded by a new
// third party for every case prosecutor that is not yet a party of app.
func withCaseProsecutors(app court.CourtApplication) []court.Party {
	known := make(map[uuid.UUID]bool)
	known[app.Applicant.AuthorityID()] = true
	known[app.Subject.AuthorityID()] = true
	for i := range app.Respondents {
		known[app.Respondents[i].AuthorityID()] = true
	}
	for i := range app.ThirdParties {
		known[app.ThirdParties[i].AuthorityID()] = true
	}

	identifiers := make([]court.ProsecutionCaseIdentifier, 0, len(app.Cases))
	for _, c := range app.Cases {
		identifiers = append(identifiers, c.Identifier)
	}
	if app.Type.LinkType == court.Linked && app.CourtOrder != nil {
		for _, o := range app.CourtOrder.Offences {
			identifiers = append(identifiers, o.Identifier)
		}
	}

	var added []court.Party
	for _, ident := range identifiers {
		id := ident.ProsecutionAuthorityID
		if id == uuid.Nil || known[id] {
			continue
		}
		known[id] = true
		added = append(added, court.Party{
			ID: uuid.NewSHA1(app.ID, id[:]),
			ProsecutingAuthority: &court.ProsecutingAuthority{
				ProsecutionAuthorityID:   id,
				ProsecutionAuthorityCode: ident.ProsecutionAuthorityCode,
			},
			SummonsRequired:      true,
			NotificationRequired: true,
		})
	}

	if len(added) == 0 {
		return app.ThirdParties
	}

	return append(added, app.ThirdParties...)
}

type prosecutorResolver struct {
	e        *Enricher
	resolved map[uuid.UUID]*refdata.Prosecutor
}

func (e *Enricher) resolveProsecutors(ctx context.Context, app court.CourtApplication) court.CourtApplication {
	r := prosecutorResolver{e: e, resolved: make(map[uuid.UUID]*refdata.Prosecutor)}

	app.Applicant = r.party(ctx, app.Applicant)
	app.Subject = r.party(ctx, app.Subject)
	app.Respondents = r.parties(ctx, app.Respondents)
	app.ThirdParties = r.parties(ctx, app.ThirdParties)

	return app
}

func (r prosecutorResolver) parties(ctx context.Context, parties []court.Party) []court.Party {
	if parties == nil {
		return nil
	}
	out := make([]court.Party, len(parties))
	for i := range parties {
		out[i] = *r.party(ctx, &parties[i])
	}
	return out
}

func (r prosecutorResolver) party(ctx context.Context, p *court.Party) *court.Party {
	if p == nil {
		return nil
	}

	out := *p
	if p.ProsecutingAuthority == nil || !p.ProsecutingAuthority.IsStandard() {
		return &out
	}

	prosecutor := r.prosecutor(ctx, p.ProsecutingAuthority.ProsecutionAuthorityID)
	if prosecutor == nil {
		return &out
	}

	auth := *p.ProsecutingAuthority
	auth.Name = prosecutor.FullName
	auth.WelshName = prosecutor.NameWelsh
	auth.Address = prosecutor.Address
	auth.Contact = prosecutor.Contact
	auth.MajorCreditorCode = prosecutor.MajorCreditorCode
	auth.ProsecutionAuthorityOUCode = prosecutor.OUCode
	if auth.ProsecutionAuthorityCode == "" {
		auth.ProsecutionAuthorityCode = prosecutor.Code
	}
	out.ProsecutingAuthority = &auth

	return &out
}

func (r prosecutorResolver) prosecutor(ctx context.Context, id uuid.UUID) *refdata.Prosecutor {
	if p, ok := r.resolved[id]; ok {
		return p
	}

	p, err := r.e.lookup.Prosecutor(ctx, id)
	if err != nil {
		if errors.Is(err, refdata.ErrNotFound) {
			r.e.log.Debug("prosecutor not found", zap.Stringer("authorityId", id))
		} else {
			r.e.log.Warn("resolve prosecutor", zap.Stringer("authorityId", id), zap.Error(err))
		}
		r.resolved[id] = nil
		return nil
	}

	r.resolved[id] = &p
	return &p
}

// offenceTitles returns a copy of order whose offences without a title carry
// the title of their offence code. Titles are looked up before the offence
// code is replaced by a resentencing activation code.
func (e *Enricher) offenceTitles(ctx context.Context, order *court.CourtOrder) *court.CourtOrder {
	if order == nil {
		return nil
	}

	var codes []string
	for _, coo := range order.Offences {
		if coo.Offence != nil && coo.Offence.Title == "" && coo.Offence.OffenceCode != "" {
			codes = append(codes, coo.Offence.OffenceCode)
		}
	}
	if len(codes) == 0 {
		return order
	}

	details, err := e.lookup.OffenceDetails(ctx, codes)
	if err != nil {
		e.log.Warn("resolve offence titles", zap.Strings("codes", codes), zap.Error(err))
		return order
	}
	titles := make(map[string]string, len(details))
	for _, d := range details {
		titles[d.Code] = d.Title
	}

	out := *order
	out.Offences = make([]court.CourtOrderOffence, len(order.Offences))
	for i, coo := range order.Offences {
		if coo.Offence != nil && coo.Offence.Title == "" {
			if title, ok := titles[coo.Offence.OffenceCode]; ok {
				offence := *coo.Offence
				offence.Title = title
				coo.Offence = &offence
			}
		}
		out.Offences[i] = coo
	}

	return &out
}

// regenerateWording returns a copy of the court order of app whose offences
// carry the wording of the original offence prefixed for resentencing or
// suspended sentence activation. Offences without an id are dropped. The
// court order is returned unchanged for first hearing applications.
func regenerateWording(app court.CourtApplication) *court.CourtOrder {
	if app.CourtOrder == nil || app.Type.LinkType == court.FirstHearing {
		return app.CourtOrder
	}

	order := *app.CourtOrder
	activation := order.JudicialResultTypeID == SuspendedSentenceActivationTypeID

	order.Offences = make([]court.CourtOrderOffence, 0, len(app.CourtOrder.Offences))
	for _, coo := range app.CourtOrder.Offences {
		if coo.Offence == nil || coo.Offence.ID == uuid.Nil {
			continue
		}

		offence := *coo.Offence
		urn := coo.Identifier.CaseURN

		if !regenerated(offence.Wording) {
			offence.Wording = wording(activation, urn, app.Type.Prefix, coo.Offence.OffenceCode, offence.Wording)
			if offence.WordingWelsh != "" {
				offence.WordingWelsh = wording(activation, urn, app.Type.Prefix, coo.Offence.OffenceCode, offence.WordingWelsh)
			}
			if app.Type.ResentencingActivationCode != "" {
				offence.OffenceCode = app.Type.ResentencingActivationCode
			}
		}

		coo.Offence = &offence
		order.Offences = append(order.Offences, coo)
	}

	return &order
}

func wording(activation bool, urn, prefix, code, details string) string {
	if activation {
		return fmt.Sprintf(activationWording, urn, code, details)
	}
	return fmt.Sprintf(resentencingWording, urn, prefix, code, details)
}

// regenerated reports whether w already is a regenerated wording, so that
// edits of an application don't nest wordings.
func regenerated(w string) bool {
	return strings.HasPrefix(w, "Original CaseURN: ") ||
		strings.HasPrefix(w, "Activation of a suspended sentence order. Original CaseURN: ")
}

type caseSnapshots struct {
	e     *Enricher
	cases map[uuid.UUID]*court.ProsecutionCase
}

// markUpdatedParties sets the updated-on timestamp of the parties whose
// defendant address differs from the defendant of the referenced prosecution
// case and clears it on all other parties.
func (e *Enricher) markUpdatedParties(ctx context.Context, app court.CourtApplication) court.CourtApplication {
	snapshots := caseSnapshots{e: e, cases: make(map[uuid.UUID]*court.ProsecutionCase)}
	now := e.now()

	mark := func(p court.Party) court.Party {
		p.UpdatedOn = nil
		if snapshots.addressChanged(ctx, p.MasterDefendant) {
			t := now
			p.UpdatedOn = &t
		}
		return p
	}

	if app.Applicant != nil {
		p := mark(*app.Applicant)
		app.Applicant = &p
	}
	if app.Subject != nil {
		p := mark(*app.Subject)
		app.Subject = &p
	}
	app.Respondents = markAll(app.Respondents, mark)
	app.ThirdParties = markAll(app.ThirdParties, mark)

	return app
}

func markAll(parties []court.Party, mark func(court.Party) court.Party) []court.Party {
	if parties == nil {
		return nil
	}
	out := make([]court.Party, len(parties))
	for i, p := range parties {
		out[i] = mark(p)
	}
	return out
}

func (s caseSnapshots) addressChanged(ctx context.Context, md *court.MasterDefendant) bool {
	if md == nil || md.ProsecutionCaseID == uuid.Nil {
		return false
	}

	c := s.prosecutionCase(ctx, md.ProsecutionCaseID)
	if c == nil {
		return false
	}

	id := md.DefendantID
	if id == uuid.Nil {
		id = md.MasterDefendantID
	}

	d, ok := c.Defendant(id)
	if !ok {
		return false
	}

	return !court.SameAddress(md.Address(), d.Address())
}

func (s caseSnapshots) prosecutionCase(ctx context.Context, id uuid.UUID) *court.ProsecutionCase {
	if c, ok := s.cases[id]; ok {
		return c
	}

	c, err := s.e.query.ProsecutionCase(ctx, id)
	if err != nil {
		if !errors.Is(err, refdata.ErrNotFound) {
			s.e.log.Warn("query prosecution case", zap.Stringer("caseId", id), zap.Error(err))
		}
		s.cases[id] = nil
		return nil
	}

	s.cases[id] = &c
	return &c
}

func futureSummonsHearing(req Proceedings) *court.FutureSummonsHearing {
	if !req.SummonsApprovalRequired || req.CourtHearing == nil {
		return nil
	}
	h := req.CourtHearing
	return &court.FutureSummonsHearing{
		CourtCentre:                   h.CourtCentre,
		JudiciaryRoles:                h.JudiciaryRoles,
		EarliestStartDateTime:         h.EarliestStartDateTime,
		EstimatedMinutes:              h.EstimatedMinutes,
		JurisdictionType:              h.JurisdictionType,
		WeekCommencingDurationInWeeks: h.WeekCommencingDurationInWeeks,
	}
}
