package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vsu-ncs/conduct-api/internal/models"
)

// ErrDuplicateResolution is returned when the resolutions table rejects a
// second resolution for the same report. Uniqueness lives in the schema, not
// in application-level check-then-insert, so concurrent resolve attempts
// surface here deterministically.
var ErrDuplicateResolution = errors.New("resolution already exists for report")

const uniqueViolation = "23505"

// ConductRepository manages persistence for conduct records and resolutions.
type ConductRepository struct {
	db *sqlx.DB
}

// NewConductRepository constructs a new repository.
func NewConductRepository(db *sqlx.DB) *ConductRepository {
	return &ConductRepository{db: db}
}

// conductJoin is the flat scan target for the record + relations join. The
// resolutions table is unique on report_id, so a LEFT JOIN yields at most one
// row per record.
type conductJoin struct {
	models.ConductRecord

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

	ResID      sql.NullString `db:"res_id"`
	ResAdminID sql.NullString `db:"res_admin_id"`
	ResDays    sql.NullInt64  `db:"res_final_sanction_days"`
	ResOther   sql.NullString `db:"res_final_sanction_other"`
	ResNotes   sql.NullString `db:"res_notes"`
	ResCreated sql.NullTime   `db:"res_created_at"`

	AdmFirst  sql.NullString `db:"adm_first_name"`
	AdmMiddle sql.NullString `db:"adm_middle_name"`
	AdmLast   sql.NullString `db:"adm_last_name"`
	AdmSuffix sql.NullString `db:"adm_suffix"`
}

const conductColumns = `cr.id, cr.student_id, cr.faculty_id, cr.category, cr.is_serious, cr.description,
	cr.sanction_days, cr.sanction_context, cr.sanction_other, cr.created_at`

const studentColumns = `s.id AS stu_id, s.student_number AS stu_number, s.first_name AS stu_first_name,
	s.middle_name AS stu_middle_name, s.last_name AS stu_last_name, s.suffix AS stu_suffix,
	s.year_level AS stu_year_level`

const reporterColumns = `r.id AS rep_id, r.title AS rep_title, r.first_name AS rep_first_name,
	r.middle_name AS rep_middle_name, r.last_name AS rep_last_name, r.suffix AS rep_suffix`

const resolutionColumns = `res.id AS res_id, res.admin_id AS res_admin_id,
	res.final_sanction_days AS res_final_sanction_days, res.final_sanction_other AS res_final_sanction_other,
	res.notes AS res_notes, res.created_at AS res_created_at,
	a.first_name AS adm_first_name, a.middle_name AS adm_middle_name,
	a.last_name AS adm_last_name, a.suffix AS adm_suffix`

// ListForStudent returns a student's conduct records joined with the reporter
// and any resolution, newest first.
func (r *ConductRepository) ListForStudent(ctx context.Context, studentID string) ([]models.ConductRecordRow, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s
FROM conduct_records cr
LEFT JOIN staff_profiles r ON r.id = cr.faculty_id
LEFT JOIN infraction_resolutions res ON res.report_id = cr.id
LEFT JOIN staff_profiles a ON a.id = res.admin_id
WHERE cr.student_id = $1
ORDER BY cr.created_at DESC`, conductColumns, reporterColumns, resolutionColumns)

	var joins []conductJoin
	if err := r.db.SelectContext(ctx, &joins, query, studentID); err != nil {
		return nil, fmt.Errorf("list conduct records for student: %w", err)
	}
	return assembleRows(joins), nil
}

// ListForFaculty returns the records filed by one faculty member joined with
// the student and resolution state, newest first.
func (r *ConductRepository) ListForFaculty(ctx context.Context, facultyID string) ([]models.ConductRecordRow, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s
FROM conduct_records cr
LEFT JOIN student_profiles s ON s.id = cr.student_id
LEFT JOIN infraction_resolutions res ON res.report_id = cr.id
LEFT JOIN staff_profiles a ON a.id = res.admin_id
WHERE cr.faculty_id = $1
ORDER BY cr.created_at DESC`, conductColumns, studentColumns, resolutionColumns)

	var joins []conductJoin
	if err := r.db.SelectContext(ctx, &joins, query, facultyID); err != nil {
		return nil, fmt.Errorf("list conduct records for faculty: %w", err)
	}
	return assembleRows(joins), nil
}

// SeriousFilter narrows the adjudication queue.
type SeriousFilter struct {
	Status    models.InfractionStatus
	FacultyID string
}

// ListSerious returns serious infraction rows with both parties joined.
func (r *ConductRepository) ListSerious(ctx context.Context, filter SeriousFilter) ([]models.ConductRecordRow, error) {
	where := "cr.is_serious = TRUE"
	args := []interface{}{}
	switch filter.Status {
	case models.StatusPending:
		where += " AND res.id IS NULL"
	case models.StatusResolved:
		where += " AND res.id IS NOT NULL"
	}
	if filter.FacultyID != "" {
		args = append(args, filter.FacultyID)
		where += fmt.Sprintf(" AND cr.faculty_id = $%d", len(args))
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s
FROM conduct_records cr
LEFT JOIN student_profiles s ON s.id = cr.student_id
LEFT JOIN staff_profiles r ON r.id = cr.faculty_id
LEFT JOIN infraction_resolutions res ON res.report_id = cr.id
LEFT JOIN staff_profiles a ON a.id = res.admin_id
WHERE %s
ORDER BY cr.created_at DESC`, conductColumns, studentColumns, reporterColumns, resolutionColumns, where)

	var joins []conductJoin
	if err := r.db.SelectContext(ctx, &joins, query, args...); err != nil {
		return nil, fmt.Errorf("list serious infractions: %w", err)
	}
	return assembleRows(joins), nil
}

// GetRow loads one record with all relations joined.
func (r *ConductRepository) GetRow(ctx context.Context, id string) (*models.ConductRecordRow, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s
FROM conduct_records cr
LEFT JOIN student_profiles s ON s.id = cr.student_id
LEFT JOIN staff_profiles r ON r.id = cr.faculty_id
LEFT JOIN infraction_resolutions res ON res.report_id = cr.id
LEFT JOIN staff_profiles a ON a.id = res.admin_id
WHERE cr.id = $1`, conductColumns, studentColumns, reporterColumns, resolutionColumns)

	var join conductJoin
	if err := r.db.GetContext(ctx, &join, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get conduct record: %w", err)
	}
	row := assembleRow(join)
	return &row, nil
}

// Create inserts a new conduct record.
func (r *ConductRepository) Create(ctx context.Context, record *models.ConductRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO conduct_records (id, student_id, faculty_id, category, is_serious, description, sanction_days, sanction_context, sanction_other, created_at)
VALUES (:id, :student_id, :faculty_id, :category, :is_serious, :description, :sanction_days, :sanction_context, :sanction_other, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create conduct record: %w", err)
	}
	return nil
}

// ListPlain returns a student's bare conduct records for balance computation.
func (r *ConductRepository) ListPlain(ctx context.Context, studentID string) ([]models.ConductRecord, error) {
	query := `SELECT id, student_id, faculty_id, category, is_serious, description, sanction_days, sanction_context, sanction_other, created_at
FROM conduct_records WHERE student_id = $1 ORDER BY created_at DESC`
	var records []models.ConductRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list conduct records: %w", err)
	}
	return records, nil
}

// Resolve records an infraction resolution and overwrites the parent record's
// sanction fields in one transaction. Either both writes land or neither
// does. A concurrent duplicate surfaces as ErrDuplicateResolution via the
// unique constraint on report_id.
func (r *ConductRepository) Resolve(ctx context.Context, resolution *models.InfractionResolution) (err error) {
	if resolution.ID == "" {
		resolution.ID = uuid.NewString()
	}
	if resolution.CreatedAt.IsZero() {
		resolution.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin resolve transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertQuery = `INSERT INTO infraction_resolutions (id, report_id, admin_id, final_sanction_days, final_sanction_other, notes, created_at)
VALUES (:id, :report_id, :admin_id, :final_sanction_days, :final_sanction_other, :notes, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, resolution); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			err = ErrDuplicateResolution
			return err
		}
		return fmt.Errorf("insert resolution: %w", err)
	}

	const updateQuery = `UPDATE conduct_records SET sanction_days = $1, sanction_other = $2 WHERE id = $3`
	if _, err = tx.ExecContext(ctx, updateQuery, resolution.FinalSanctionDays, resolution.FinalSanctionOther, resolution.ReportID); err != nil {
		return fmt.Errorf("update parent record sanction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit resolution: %w", err)
	}
	return nil
}

func assembleRows(joins []conductJoin) []models.ConductRecordRow {
	rows := make([]models.ConductRecordRow, 0, len(joins))
	for _, j := range joins {
		rows = append(rows, assembleRow(j))
	}
	return rows
}

func assembleRow(j conductJoin) models.ConductRecordRow {
	row := models.ConductRecordRow{ConductRecord: j.ConductRecord}

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

	if j.ResID.Valid {
		res := models.ResolutionRow{
			InfractionResolution: models.InfractionResolution{
				ID:                 j.ResID.String,
				ReportID:           j.ConductRecord.ID,
				AdminID:            j.ResAdminID.String,
				FinalSanctionDays:  int(j.ResDays.Int64),
				FinalSanctionOther: nullable(j.ResOther),
				Notes:              j.ResNotes.String,
				CreatedAt:          j.ResCreated.Time,
			},
		}
		if j.AdmFirst.Valid || j.AdmLast.Valid {
			res.Admin = &models.StaffProfile{
				ID:         j.ResAdminID.String,
				FirstName:  j.AdmFirst.String,
				MiddleName: nullable(j.AdmMiddle),
				LastName:   j.AdmLast.String,
				Suffix:     nullable(j.AdmSuffix),
			}
		}
		row.Resolutions = []models.ResolutionRow{res}
	}

	return row
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
