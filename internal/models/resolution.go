package models

import "time"

// InfractionResolution is the one-time adjudication of a serious conduct
// record. At most one exists per report; the resolutions table carries a
// unique constraint on report_id. Never updated or deleted.
type InfractionResolution struct {
	ID                 string    `db:"id" json:"id"`
	ReportID           string    `db:"report_id" json:"report_id"`
	AdminID            string    `db:"admin_id" json:"admin_id"`
	FinalSanctionDays  int       `db:"final_sanction_days" json:"final_sanction_days"`
	FinalSanctionOther *string   `db:"final_sanction_other" json:"final_sanction_other,omitempty"`
	Notes              string    `db:"notes" json:"notes"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// ResolutionRow is a joined resolution with its adjudicating admin, when that
// profile still exists.
type ResolutionRow struct {
	InfractionResolution
	Admin *StaffProfile
}
