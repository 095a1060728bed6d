package models

import "time"

// ConductCategory distinguishes merit from demerit records. Serious
// infractions are stored as demerits with the is_serious flag set.
type ConductCategory string

const (
	CategoryMerit   ConductCategory = "merit"
	CategoryDemerit ConductCategory = "demerit"
)

// SanctionContext identifies which ledger a sanction belongs to.
type SanctionContext string

const (
	ContextOffice SanctionContext = "office"
	ContextRLE    SanctionContext = "rle"
)

// InfractionStatus is derived from the presence of a resolution, never stored.
type InfractionStatus string

const (
	StatusPending  InfractionStatus = "Pending"
	StatusResolved InfractionStatus = "Resolved"
)

// ConductRecord is one filed merit, demerit or serious-infraction event.
// Immutable after filing except for the sanction fields, which are overwritten
// exactly once when a serious record is resolved.
type ConductRecord struct {
	ID              string          `db:"id" json:"id"`
	StudentID       string          `db:"student_id" json:"student_id"`
	FacultyID       string          `db:"faculty_id" json:"faculty_id"`
	Category        ConductCategory `db:"category" json:"category"`
	IsSerious       bool            `db:"is_serious" json:"is_serious"`
	Description     string          `db:"description" json:"description"`
	SanctionDays    int             `db:"sanction_days" json:"sanction_days"`
	SanctionContext SanctionContext `db:"sanction_context" json:"sanction_context"`
	SanctionOther   *string         `db:"sanction_other" json:"sanction_other,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// ConductRecordRow mirrors one joined database row: the record plus whatever
// related entities the query pulled in. Any of the relations may be absent
// (deleted reporter, unresolved infraction); consumers must tolerate that.
type ConductRecordRow struct {
	ConductRecord
	Student     *StudentProfile
	Reporter    *StaffProfile
	Resolutions []ResolutionRow
}
