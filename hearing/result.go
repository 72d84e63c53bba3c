package hearing

import (
	"github.com/courtflow/progression/court"
	"github.com/google/uuid"
)

// resultHearing returns the resulted snapshot of h. Defendants and offences
// get derived proceedings-concluded flags, cases of single-case proceedings
// get a derived status and every offence carries its latest adjournment,
// never earlier than the adjournment recorded in prev.
func resultHearing(h court.Hearing, prev map[uuid.UUID]court.Adjournment) court.Hearing {
	carry := func(offences []court.Offence) []court.Offence {
		return carryAdjournments(offences, prev)
	}

	h.ProsecutionCases = mapped(h.ProsecutionCases, func(c court.ProsecutionCase) court.ProsecutionCase {
		c.Defendants = mapped(c.Defendants, func(d court.Defendant) court.Defendant {
			d = court.ConcludeDefendant(d)
			d.Offences = carry(d.Offences)
			return d
		})
		if !h.IsGroupProceedings {
			c.CaseStatus = court.DeriveCaseStatus(c, h.DefendantJudicialResults)
		}
		return c
	})

	h.CourtApplications = mapped(h.CourtApplications, func(app court.CourtApplication) court.CourtApplication {
		app.Cases = mapped(app.Cases, func(c court.ApplicationCase) court.ApplicationCase {
			c.Offences = carry(c.Offences)
			return c
		})
		if app.CourtOrder != nil {
			order := *app.CourtOrder
			order.Offences = mapped(order.Offences, func(o court.CourtOrderOffence) court.CourtOrderOffence {
				if o.Offence != nil {
					offence := carry([]court.Offence{*o.Offence})[0]
					o.Offence = &offence
				}
				return o
			})
			app.CourtOrder = &order
		}
		return app
	})

	return h
}

func carryAdjournments(offences []court.Offence, prev map[uuid.UUID]court.Adjournment) []court.Offence {
	return mapped(offences, func(o court.Offence) court.Offence {
		adj := prev[o.ID]
		if o.LastAdjournDate != nil {
			adj = court.MergeAdjournment(adj, court.Adjournment{Date: *o.LastAdjournDate, HearingType: o.LastAdjournedHearingType})
		}
		if latest, ok := court.LatestAdjournment(o.JudicialResults); ok {
			adj = court.MergeAdjournment(adj, latest)
		}
		if adj.Date.IsZero() {
			return o
		}
		date := adj.Date
		o.LastAdjournDate = &date
		o.LastAdjournedHearingType = adj.HearingType
		return o
	})
}

// committingCourt returns the first committing court of the offences of the
// prosecution cases of h.
func committingCourt(h court.Hearing) *court.CommittingCourt {
	for _, c := range h.ProsecutionCases {
		for _, d := range c.Defendants {
			for _, o := range d.Offences {
				if o.CommittingCourt != nil {
					cc := *o.CommittingCourt
					return &cc
				}
			}
		}
	}
	return nil
}

// offences calls fn for every offence of h.
func offences(h court.Hearing, fn func(court.Offence)) {
	for _, c := range h.ProsecutionCases {
		for _, d := range c.Defendants {
			for _, o := range d.Offences {
				fn(o)
			}
		}
	}
	for _, app := range h.CourtApplications {
		for _, c := range app.Cases {
			for _, o := range c.Offences {
				fn(o)
			}
		}
		if app.CourtOrder != nil {
			for _, o := range app.CourtOrder.Offences {
				if o.Offence != nil {
					fn(*o.Offence)
				}
			}
		}
	}
}

// withoutOffences returns a copy of h without the given offences. Defendants
// left without offences and cases left without defendants are removed.
func withoutOffences(h court.Hearing, ids []uuid.UUID) court.Hearing {
	remove := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	var cases []court.ProsecutionCase
	for _, c := range h.ProsecutionCases {
		var defendants []court.Defendant
		for _, d := range c.Defendants {
			var kept []court.Offence
			for _, o := range d.Offences {
				if !remove[o.ID] {
					kept = append(kept, o)
				}
			}
			if len(kept) == 0 {
				continue
			}
			d.Offences = kept
			defendants = append(defendants, d)
		}
		if len(defendants) == 0 {
			continue
		}
		c.Defendants = defendants
		cases = append(cases, c)
	}
	h.ProsecutionCases = cases

	return h
}

// withVerdict returns a copy of h where the offence with the given id has the
// verdict v.
func withVerdict(h court.Hearing, offenceID uuid.UUID, v court.Verdict) court.Hearing {
	h.ProsecutionCases = mapped(h.ProsecutionCases, func(c court.ProsecutionCase) court.ProsecutionCase {
		c.Defendants = mapped(c.Defendants, func(d court.Defendant) court.Defendant {
			d.Offences = mapped(d.Offences, func(o court.Offence) court.Offence {
				if o.ID == offenceID {
					verdict := v
					o.Verdict = &verdict
				}
				return o
			})
			return d
		})
		return c
	})
	return h
}

func mapped[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
