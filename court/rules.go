package court

import (
	"time"

	"github.com/google/uuid"
)

// HasFinal reports whether any of the results has category FINAL.
func HasFinal(results []JudicialResult) bool {
	for _, r := range results {
		if r.Category == Final {
			return true
		}
	}
	return false
}

// ConcludeOffences returns a copy of offences where every offence's
// ProceedingsConcluded flag mirrors whether the offence has a FINAL result.
func ConcludeOffences(offences []Offence) []Offence {
	if offences == nil {
		return nil
	}
	out := make([]Offence, len(offences))
	for i, o := range offences {
		o.ProceedingsConcluded = HasFinal(o.JudicialResults)
		out[i] = o
	}
	return out
}

// ConcludeDefendant returns a copy of d with derived proceedings-concluded
// flags. The defendant is concluded iff any of its offences has a FINAL
// result.
func ConcludeDefendant(d Defendant) Defendant {
	d.Offences = ConcludeOffences(d.Offences)
	d.ProceedingsConcluded = false
	for _, o := range d.Offences {
		if o.ProceedingsConcluded {
			d.ProceedingsConcluded = true
			break
		}
	}
	return d
}

// HasCaseLevelFinal reports whether a case-level FINAL result is attached for
// any defendant of c, either through the hearing's defendant judicial results
// or through a defendant's own case-level results.
func HasCaseLevelFinal(c ProsecutionCase, hearingResults []DefendantJudicialResult) bool {
	masters := make(map[uuid.UUID]bool, len(c.Defendants))
	for _, d := range c.Defendants {
		masters[d.MasterDefendantID] = true
		if HasFinal(d.CaseJudicialResults) {
			return true
		}
	}
	for _, r := range hearingResults {
		if masters[r.MasterDefendantID] && r.JudicialResult.Category == Final {
			return true
		}
	}
	return false
}

// AllConcluded reports whether c has defendants and all of them are concluded.
func AllConcluded(c ProsecutionCase) bool {
	if len(c.Defendants) == 0 {
		return false
	}
	for _, d := range c.Defendants {
		if !d.ProceedingsConcluded {
			return false
		}
	}
	return true
}

// DeriveCaseStatus returns the status of c after a hearing was resulted: the
// case is INACTIVE if all its defendants are concluded or a case-level FINAL
// result is attached; otherwise it keeps its status.
func DeriveCaseStatus(c ProsecutionCase, hearingResults []DefendantJudicialResult) CaseStatus {
	if AllConcluded(c) || HasCaseLevelFinal(c, hearingResults) {
		return CaseInactive
	}
	return c.CaseStatus
}

// Adjournment is the last adjournment recorded for an offence.
type Adjournment struct {
	Date        time.Time `json:"date"`
	HearingType string    `json:"hearingType,omitempty"`
}

// LatestAdjournment returns the adjournment with the latest ordered date among
// the results of an offence.
func LatestAdjournment(results []JudicialResult) (Adjournment, bool) {
	var latest Adjournment
	var found bool
	for _, r := range results {
		if !r.IsAdjournment() {
			continue
		}
		if found && r.OrderedDate.Before(latest.Date) {
			continue
		}
		latest = Adjournment{Date: r.OrderedDate}
		if r.NextHearing != nil {
			latest.HearingType = r.NextHearing.Type.Description
		}
		found = true
	}
	return latest, found
}

// MergeAdjournment returns the adjournment to record when next follows prev.
// A next adjournment ordered earlier than prev never replaces it.
func MergeAdjournment(prev, next Adjournment) Adjournment {
	if !prev.Date.IsZero() && next.Date.Before(prev.Date) {
		return prev
	}
	return next
}
