package models

import (
	"strings"
	"time"
)

// StudentProfile is the identity record of a student. Read-only here: account
// provisioning lives outside the conduct core.
type StudentProfile struct {
	ID            string    `db:"id" json:"id"`
	StudentNumber string    `db:"student_number" json:"student_number"`
	FirstName     string    `db:"first_name" json:"first_name"`
	MiddleName    *string   `db:"middle_name" json:"middle_name,omitempty"`
	LastName      string    `db:"last_name" json:"last_name"`
	Suffix        *string   `db:"suffix" json:"suffix,omitempty"`
	YearLevel     int       `db:"year_level" json:"year_level"`
	Sex           *string   `db:"sex" json:"sex,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// FullName renders "First M. Last Suffix", skipping absent parts.
func (p *StudentProfile) FullName() string {
	if p == nil {
		return ""
	}
	return joinName(p.FirstName, deref(p.MiddleName), p.LastName, deref(p.Suffix))
}

// StaffProfile is the identity record of a faculty member or administrator.
type StaffProfile struct {
	ID         string    `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	Title      *string   `db:"title" json:"title,omitempty"`
	FirstName  string    `db:"first_name" json:"first_name"`
	MiddleName *string   `db:"middle_name" json:"middle_name,omitempty"`
	LastName   string    `db:"last_name" json:"last_name"`
	Suffix     *string   `db:"suffix" json:"suffix,omitempty"`
	Role       UserRole  `db:"role" json:"role"`
	Sex        *string   `db:"sex" json:"sex,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FullName renders "First M. Last Suffix", skipping absent parts.
func (p *StaffProfile) FullName() string {
	if p == nil {
		return ""
	}
	return joinName(p.FirstName, deref(p.MiddleName), p.LastName, deref(p.Suffix))
}

func joinName(first, middle, last, suffix string) string {
	parts := make([]string, 0, 4)
	if first != "" {
		parts = append(parts, first)
	}
	if middle != "" {
		runes := []rune(middle)
		parts = append(parts, strings.ToUpper(string(runes[0]))+".")
	}
	if last != "" {
		parts = append(parts, last)
	}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
