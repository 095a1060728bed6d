package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vsu-ncs/conduct-api/internal/models"
)

// ServiceLogRepository manages persistence for extension-duty service logs.
type ServiceLogRepository struct {
	db *sqlx.DB
}

// NewServiceLogRepository constructs a new repository.
func NewServiceLogRepository(db *sqlx.DB) *ServiceLogRepository {
	return &ServiceLogRepository{db: db}
}

type serviceLogJoin struct {
	models.ServiceLog

	StuID     sql.NullString `db:"stu_id"`
	StuNumber sql.NullString `db:"stu_number"`
	StuFirst  sql.NullString `db:"stu_first_name"`
	StuMiddle sql.NullString `db:"stu_middle_name"`
	StuLast   sql.NullString `db:"stu_last_name"`
	StuSuffix sql.NullString `db:"stu_suffix"`
	StuYear   sql.NullInt64  `db:"stu_year_level"`

	RepID     sql.NullString `db:"rep_id"`
	RepTitle  sql.NullString `db:"rep_title"`
	RepFirst  sql.NullString `db:"rep_first_name"`
	RepMiddle sql.NullString `db:"rep_middle_name"`
	RepLast   sql.NullString `db:"rep_last_name"`
	RepSuffix sql.NullString `db:"rep_suffix"`
}

const serviceLogColumns = `sl.id, sl.student_id, sl.faculty_id, sl.days_deducted, sl.description, sl.created_at`

// ListForStudent returns a student's service logs with the filing faculty
// member joined, newest first.
func (r *ServiceLogRepository) ListForStudent(ctx context.Context, studentID string) ([]models.ServiceLogRow, error) {
	query := fmt.Sprintf(`SELECT %s, %s
FROM service_logs sl
LEFT JOIN staff_profiles r ON r.id = sl.faculty_id
WHERE sl.student_id = $1
ORDER BY sl.created_at DESC`, serviceLogColumns, reporterColumns)

	var joins []serviceLogJoin
	if err := r.db.SelectContext(ctx, &joins, query, studentID); err != nil {
		return nil, fmt.Errorf("list service logs for student: %w", err)
	}
	return assembleServiceRows(joins), nil
}

// ListForFaculty returns the service logs filed by one faculty member with
// the student joined, newest first.
func (r *ServiceLogRepository) ListForFaculty(ctx context.Context, facultyID string) ([]models.ServiceLogRow, error) {
	query := fmt.Sprintf(`SELECT %s, %s
FROM service_logs sl
LEFT JOIN student_profiles s ON s.id = sl.student_id
WHERE sl.faculty_id = $1
ORDER BY sl.created_at DESC`, serviceLogColumns, studentColumns)

	var joins []serviceLogJoin
	if err := r.db.SelectContext(ctx, &joins, query, facultyID); err != nil {
		return nil, fmt.Errorf("list service logs for faculty: %w", err)
	}
	return assembleServiceRows(joins), nil
}

// ListPlain returns a student's bare service logs for balance computation.
func (r *ServiceLogRepository) ListPlain(ctx context.Context, studentID string) ([]models.ServiceLog, error) {
	query := `SELECT id, student_id, faculty_id, days_deducted, description, created_at
FROM service_logs WHERE student_id = $1 ORDER BY created_at DESC`
	var logs []models.ServiceLog
	if err := r.db.SelectContext(ctx, &logs, query, studentID); err != nil {
		return nil, fmt.Errorf("list service logs: %w", err)
	}
	return logs, nil
}

// Create inserts a new service log.
func (r *ServiceLogRepository) Create(ctx context.Context, log *models.ServiceLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO service_logs (id, student_id, faculty_id, days_deducted, description, created_at)
VALUES (:id, :student_id, :faculty_id, :days_deducted, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create service log: %w", err)
	}
	return nil
}

func assembleServiceRows(joins []serviceLogJoin) []models.ServiceLogRow {
	rows := make([]models.ServiceLogRow, 0, len(joins))
	for _, j := range joins {
		row := models.ServiceLogRow{ServiceLog: j.ServiceLog}
		if j.StuID.Valid {
			row.Student = &models.StudentProfile{
				ID:            j.StuID.String,
				StudentNumber: j.StuNumber.String,
				FirstName:     j.StuFirst.String,
				MiddleName:    nullable(j.StuMiddle),
				LastName:      j.StuLast.String,
				Suffix:        nullable(j.StuSuffix),
				YearLevel:     int(j.StuYear.Int64),
			}
		}
		if j.RepID.Valid {
			row.Reporter = &models.StaffProfile{
				ID:         j.RepID.String,
				Title:      nullable(j.RepTitle),
				FirstName:  j.RepFirst.String,
				MiddleName: nullable(j.RepMiddle),
				LastName:   j.RepLast.String,
				Suffix:     nullable(j.RepSuffix),
			}
		}
		rows = append(rows, row)
	}
	return rows
}
