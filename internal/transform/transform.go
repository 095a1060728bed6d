// Package transform maps raw joined rows into role-specific view models.
// Every transformer is null-safe: a missing related entity degrades to a
// fallback label, and a malformed row maps to nil rather than an error. The
// caller filters nils with SafeMap. This is the only error-handling
// convention in the layer; diagnostics go to the logger and nowhere else.
package transform

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/internal/ledger"
	"github.com/vsu-ncs/conduct-api/internal/models"
)

// Fallback labels for absent relations.
const (
	UnknownFaculty = "Unknown Faculty"
	UnknownStudent = "Unknown Student"
	UnknownAdmin   = "Admin"
)

// Transformer converts joined rows into view models.
type Transformer struct {
	logger *zap.Logger
}

// New builds a Transformer.
func New(logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{logger: logger}
}

// SafeMap applies fn to every element, drops nil results and preserves order.
func SafeMap[R any, T any](items []R, fn func(R) *T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if v := fn(item); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// StudentRecord renders a conduct record from the student's perspective: the
// reporter is the primary actor and full resolution detail is embedded.
func (t *Transformer) StudentRecord(row *models.ConductRecordRow) *dto.StudentConductRecord {
	if row == nil || row.ID == "" {
		t.logger.Debug("dropping malformed conduct row")
		return nil
	}

	status := t.status(row)

	return &dto.StudentConductRecord{
		ID:              row.ID,
		CreatedAt:       row.CreatedAt,
		Category:        row.Category,
		IsSerious:       row.IsSerious,
		Description:     row.Description,
		SanctionDays:    row.SanctionDays,
		SanctionContext: row.SanctionContext,
		SanctionOther:   row.SanctionOther,
		Status:          status,
		Reporter:        t.reporterRef(row.Reporter),
		Resolution:      t.resolutionDetail(row.Resolutions, true),
	}
}

// FacultyRecord renders a conduct record from the reporter's perspective: the
// student is the primary actor; resolution status only, no admin notes.
func (t *Transformer) FacultyRecord(row *models.ConductRecordRow) *dto.FacultyConductRecord {
	if row == nil || row.ID == "" {
		t.logger.Debug("dropping malformed conduct row")
		return nil
	}

	status := t.status(row)

	rec := &dto.FacultyConductRecord{
		ID:              row.ID,
		CreatedAt:       row.CreatedAt,
		Category:        row.Category,
		IsSerious:       row.IsSerious,
		Description:     row.Description,
		SanctionDays:    row.SanctionDays,
		SanctionContext: row.SanctionContext,
		SanctionOther:   row.SanctionOther,
		Status:          status,
		Student:         t.studentRef(row.Student, false),
	}
	if len(row.Resolutions) > 0 {
		resolvedAt := row.Resolutions[0].CreatedAt
		rec.ResolvedAt = &resolvedAt
	}
	return rec
}

// AdminTicket renders a serious infraction for the adjudication queue: both
// parties plus full resolution detail.
func (t *Transformer) AdminTicket(row *models.ConductRecordRow) *dto.InfractionTicket {
	if row == nil || row.ID == "" {
		t.logger.Debug("dropping malformed infraction row")
		return nil
	}

	status := t.status(row)

	ticket := &dto.InfractionTicket{
		ID:              row.ID,
		CreatedAt:       row.CreatedAt,
		Description:     row.Description,
		SanctionDays:    row.SanctionDays,
		SanctionContext: row.SanctionContext,
		SanctionOther:   row.SanctionOther,
		Status:          status,
		Student:         t.studentRef(row.Student, true),
		Reporter:        t.reporterRef(row.Reporter),
		Resolution:      t.resolutionDetail(row.Resolutions, true),
	}
	if len(row.Resolutions) > 0 {
		id := row.Resolutions[0].ID
		ticket.ResolutionID = &id
	}
	return ticket
}

// StudentServiceLog renders a service log for the student who served it.
func (t *Transformer) StudentServiceLog(row *models.ServiceLogRow) *dto.StudentServiceLog {
	if row == nil || row.ID == "" {
		t.logger.Debug("dropping malformed service log row")
		return nil
	}
	return &dto.StudentServiceLog{
		ID:           row.ID,
		CreatedAt:    row.CreatedAt,
		DaysDeducted: row.DaysDeducted,
		Description:  row.Description,
		Reporter:     t.reporterRef(row.Reporter),
	}
}

// FacultyServiceLog renders a service log for the faculty member who filed it.
func (t *Transformer) FacultyServiceLog(row *models.ServiceLogRow) *dto.FacultyServiceLog {
	if row == nil || row.ID == "" {
		t.logger.Debug("dropping malformed service log row")
		return nil
	}
	return &dto.FacultyServiceLog{
		ID:           row.ID,
		CreatedAt:    row.CreatedAt,
		DaysDeducted: row.DaysDeducted,
		Description:  row.Description,
		Student:      t.studentRef(row.Student, false),
	}
}

func (t *Transformer) status(row *models.ConductRecordRow) models.InfractionStatus {
	status, err := ledger.StatusOf(row.Resolutions)
	if err != nil {
		t.logger.Warn("conduct record has conflicting resolutions",
			zap.String("record_id", row.ID),
			zap.Int("count", len(row.Resolutions)))
	}
	return status
}

func (t *Transformer) reporterRef(staff *models.StaffProfile) dto.ReporterRef {
	if staff == nil {
		return dto.ReporterRef{Name: UnknownFaculty}
	}
	ref := dto.ReporterRef{Name: staff.FullName()}
	if staff.Title != nil {
		ref.Title = *staff.Title
	}
	return ref
}

func (t *Transformer) studentRef(student *models.StudentProfile, includeID bool) dto.StudentRef {
	if student == nil {
		return dto.StudentRef{Name: UnknownStudent}
	}
	ref := dto.StudentRef{
		Name:          student.FullName(),
		StudentNumber: student.StudentNumber,
		YearLevel:     student.YearLevel,
	}
	if includeID {
		ref.ID = student.ID
	}
	return ref
}

func (t *Transformer) resolutionDetail(resolutions []models.ResolutionRow, includeNotes bool) *dto.ResolutionDetail {
	if len(resolutions) == 0 {
		return nil
	}
	// The schema guarantees at most one; reads only ever trust the first.
	res := resolutions[0]

	adminName := UnknownAdmin
	if res.Admin != nil {
		adminName = res.Admin.FullName()
	}

	detail := &dto.ResolutionDetail{
		ID:            res.ID,
		ResolvedAt:    res.CreatedAt,
		AdminName:     adminName,
		FinalSanction: FormatSanction(res.FinalSanctionDays, res.FinalSanctionOther),
	}
	if includeNotes {
		detail.Notes = res.Notes
	}
	return detail
}

// FormatSanction renders the human-readable sanction: the day count when one
// was imposed, otherwise the free-text alternative.
func FormatSanction(days int, other *string) string {
	if days > 0 {
		if days == 1 {
			return "1 day"
		}
		return strconv.Itoa(days) + " days"
	}
	if other != nil && *other != "" {
		return *other
	}
	return "No sanction"
}
