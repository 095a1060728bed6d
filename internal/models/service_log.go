package models

import "time"

// ServiceLog records extension duty served, reducing the student's
// outstanding sanction balance. Immutable after filing.
type ServiceLog struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	FacultyID    string    `db:"faculty_id" json:"faculty_id"`
	DaysDeducted int       `db:"days_deducted" json:"days_deducted"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ServiceLogRow is a joined service log with optional related profiles.
type ServiceLogRow struct {
	ServiceLog
	Student  *StudentProfile
	Reporter *StaffProfile
}
