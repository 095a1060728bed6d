package dto

import (
	"time"

	"github.com/vsu-ncs/conduct-api/internal/models"
)

// ReporterRef identifies the faculty member shown on a student-facing record.
type ReporterRef struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// StudentRef identifies the student shown on a faculty- or admin-facing record.
type StudentRef struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	StudentNumber string `json:"student_number,omitempty"`
	YearLevel     int    `json:"year_level,omitempty"`
}

// ResolutionDetail is the rendered outcome of an adjudicated infraction.
type ResolutionDetail struct {
	ID            string    `json:"id,omitempty"`
	ResolvedAt    time.Time `json:"resolved_at"`
	AdminName     string    `json:"admin_name"`
	FinalSanction string    `json:"final_sanction"`
	Notes         string    `json:"notes,omitempty"`
}

// StudentConductRecord is the student's view of one conduct record: the
// reporter is the primary actor, full resolution detail is included.
type StudentConductRecord struct {
	ID              string                  `json:"id"`
	CreatedAt       time.Time               `json:"created_at"`
	Category        models.ConductCategory  `json:"category"`
	IsSerious       bool                    `json:"is_serious"`
	Description     string                  `json:"description"`
	SanctionDays    int                     `json:"sanction_days"`
	SanctionContext models.SanctionContext  `json:"sanction_context"`
	SanctionOther   *string                 `json:"sanction_other,omitempty"`
	Status          models.InfractionStatus `json:"status"`
	Reporter        ReporterRef             `json:"reporter"`
	Resolution      *ResolutionDetail       `json:"resolution,omitempty"`
}

// FacultyConductRecord is the reporter's view: the student is the primary
// actor and only the resolution status is exposed, not the admin's notes.
type FacultyConductRecord struct {
	ID              string                  `json:"id"`
	CreatedAt       time.Time               `json:"created_at"`
	Category        models.ConductCategory  `json:"category"`
	IsSerious       bool                    `json:"is_serious"`
	Description     string                  `json:"description"`
	SanctionDays    int                     `json:"sanction_days"`
	SanctionContext models.SanctionContext  `json:"sanction_context"`
	SanctionOther   *string                 `json:"sanction_other,omitempty"`
	Status          models.InfractionStatus `json:"status"`
	ResolvedAt      *time.Time              `json:"resolved_at,omitempty"`
	Student         StudentRef              `json:"student"`
}

// InfractionTicket is the admin adjudication view: both parties plus full
// resolution detail when present.
type InfractionTicket struct {
	ID              string                  `json:"id"`
	CreatedAt       time.Time               `json:"created_at"`
	Description     string                  `json:"description"`
	SanctionDays    int                     `json:"sanction_days"`
	SanctionContext models.SanctionContext  `json:"sanction_context"`
	SanctionOther   *string                 `json:"sanction_other,omitempty"`
	Status          models.InfractionStatus `json:"status"`
	ResolutionID    *string                 `json:"resolution_id,omitempty"`
	Student         StudentRef              `json:"student"`
	Reporter        ReporterRef             `json:"reporter"`
	Resolution      *ResolutionDetail       `json:"resolution,omitempty"`
}

// StudentServiceLog is the student's view of one service log entry.
type StudentServiceLog struct {
	ID           string      `json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	DaysDeducted int         `json:"days_deducted"`
	Description  string      `json:"description"`
	Reporter     ReporterRef `json:"reporter"`
}

// FacultyServiceLog is the faculty view of one service log entry.
type FacultyServiceLog struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	DaysDeducted int        `json:"days_deducted"`
	Description  string     `json:"description"`
	Student      StudentRef `json:"student"`
}
