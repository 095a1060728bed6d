package ledger

import (
	"errors"

	"github.com/vsu-ncs/conduct-api/internal/models"
)

// Workflow rules for serious infractions. Filing a serious record puts it in
// Pending immediately; the only legal transition is Pending -> Resolved, and
// Resolved is terminal. Non-serious records have no workflow at all: they are
// sanction-complete the moment they are filed.

// ErrTooManyResolutions signals more than one resolution attached to a single
// report, which the schema's unique constraint should make impossible.
var ErrTooManyResolutions = errors.New("report has more than one resolution")

// StatusOf derives the workflow status from the joined resolution relation.
// Zero resolutions means Pending, exactly one means Resolved. More than one
// is a data-integrity fault: the first resolution still wins so reads keep
// working, but the error is reported for diagnostics.
func StatusOf(resolutions []models.ResolutionRow) (models.InfractionStatus, error) {
	switch len(resolutions) {
	case 0:
		return models.StatusPending, nil
	case 1:
		return models.StatusResolved, nil
	default:
		return models.StatusResolved, ErrTooManyResolutions
	}
}

// CanResolve reports whether a resolution may legally be recorded for the
// given record. The returned reason is empty when the transition is allowed.
func CanResolve(record *models.ConductRecord, existing []models.ResolutionRow) (bool, string) {
	if record == nil {
		return false, "report does not exist"
	}
	if !record.IsSerious {
		return false, "record is not a serious infraction"
	}
	if len(existing) > 0 {
		return false, "report is already resolved"
	}
	return true, ""
}

// EffectiveSanction is the sanction a resolved record carries: the resolution
// overwrites the parent record's sanction fields at resolve time, so the
// stored value and the resolution's final value must agree. Reading through
// this helper keeps the two from drifting in view code.
func EffectiveSanction(record *models.ConductRecord, resolutions []models.ResolutionRow) (days int, other *string) {
	if record == nil {
		return 0, nil
	}
	if len(resolutions) > 0 {
		r := resolutions[0].InfractionResolution
		return r.FinalSanctionDays, r.FinalSanctionOther
	}
	return record.SanctionDays, record.SanctionOther
}
