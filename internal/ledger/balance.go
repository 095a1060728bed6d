// Package ledger holds the conduct-ledger arithmetic and the serious
// infraction workflow rules. Everything here is a pure computation over the
// records handed in; time-windowing, if a view needs it, is the caller's job.
package ledger

import (
	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/internal/models"
)

// Policy names a reconciliation strategy. The two formulas are intentionally
// kept side by side; which one is authoritative is an open product question,
// so callers pick per view.
type Policy string

const (
	// PolicyGlobal: one scalar balance, merits and service days both offset
	// demerits regardless of context.
	PolicyGlobal Policy = "global"
	// PolicyContext: independent office and RLE nets, merits offset demerits
	// within the same context only; service days are tracked alongside but
	// never subtracted from the nets.
	PolicyContext Policy = "context"
)

// Totals are the raw sums a balance derives from.
type Totals struct {
	Merits   int
	Demerits int
	Served   int

	OfficeMerits   int
	OfficeDemerits int
	RLEMerits      int
	RLEDemerits    int
}

// Tally sums sanction days and service days over the full history passed in.
// Unresolved serious infractions carry zero sanction days by construction, so
// they contribute nothing until adjudicated.
func Tally(records []models.ConductRecord, logs []models.ServiceLog) Totals {
	var t Totals
	for _, r := range records {
		days := r.SanctionDays
		if days < 0 {
			days = 0
		}
		switch r.Category {
		case models.CategoryMerit:
			t.Merits += days
			switch r.SanctionContext {
			case models.ContextOffice:
				t.OfficeMerits += days
			case models.ContextRLE:
				t.RLEMerits += days
			}
		case models.CategoryDemerit:
			t.Demerits += days
			switch r.SanctionContext {
			case models.ContextOffice:
				t.OfficeDemerits += days
			case models.ContextRLE:
				t.RLEDemerits += days
			}
		}
	}
	for _, l := range logs {
		if l.DaysDeducted > 0 {
			t.Served += l.DaysDeducted
		}
	}
	return t
}

// GlobalBalance applies the global policy: max(0, demerits - served - merits).
// Surplus merit or service never carries over as credit.
func (t Totals) GlobalBalance() int {
	return clamp(t.Demerits - t.Served - t.Merits)
}

// ContextNet applies the per-context policy: each ledger nets merits against
// demerits independently and ignores service days.
func (t Totals) ContextNet() (office, rle int) {
	return clamp(t.OfficeDemerits - t.OfficeMerits), clamp(t.RLEDemerits - t.RLEMerits)
}

// Summarize computes every total and both policy results for one student.
func Summarize(studentID string, records []models.ConductRecord, logs []models.ServiceLog) dto.BalanceSummary {
	t := Tally(records, logs)
	office, rle := t.ContextNet()
	return dto.BalanceSummary{
		StudentID:        studentID,
		TotalMerits:      t.Merits,
		TotalDemerits:    t.Demerits,
		TotalServed:      t.Served,
		OfficeMerits:     t.OfficeMerits,
		OfficeDemerits:   t.OfficeDemerits,
		RLEMerits:        t.RLEMerits,
		RLEDemerits:      t.RLEDemerits,
		RemainingBalance: t.GlobalBalance(),
		NetOffice:        office,
		NetRLE:           rle,
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
