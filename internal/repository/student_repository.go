package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vsu-ncs/conduct-api/internal/models"
)

// StudentRepository reads student identity records. Profiles are provisioned
// elsewhere; the conduct core only ever reads them.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a new repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentProfileColumns = `id, student_number, first_name, middle_name, last_name, suffix, year_level, sex, created_at, updated_at`

// FindByID loads one student profile.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_profiles WHERE id = $1`, studentProfileColumns)
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get student profile: %w", err)
	}
	return &profile, nil
}

// Exists reports whether a student exists.
func (r *StudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM student_profiles WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("check student exists: %w", err)
	}
	return exists, nil
}

// List returns all student profiles ordered by name.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_profiles ORDER BY last_name, first_name`, studentProfileColumns)
	var profiles []models.StudentProfile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list student profiles: %w", err)
	}
	return profiles, nil
}

// StaffRepository reads staff identity records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a new repository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// FindByID loads one staff profile.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	query := `SELECT id, employee_id, title, first_name, middle_name, last_name, suffix, role, sex, created_at, updated_at
FROM staff_profiles WHERE id = $1`
	var profile models.StaffProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get staff profile: %w", err)
	}
	return &profile, nil
}
