package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/vsu-ncs/conduct-api/internal/ledger"
	"github.com/vsu-ncs/conduct-api/internal/models"
	"github.com/vsu-ncs/conduct-api/internal/transform"
	"github.com/vsu-ncs/conduct-api/pkg/config"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
	"github.com/vsu-ncs/conduct-api/pkg/export"
)

// ExportFormat enumerates supported conduct-history export formats.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered export bytes plus response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

type exportConductRepository interface {
	ListForStudent(ctx context.Context, studentID string) ([]models.ConductRecordRow, error)
}

type exportStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentProfile, error)
}

// ExportService renders a student's conduct history to CSV or PDF.
type ExportService struct {
	records  exportConductRepository
	students exportStudentRepository
	audit    auditWriter
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	cfg      config.ExportsConfig
}

// NewExportService constructs an ExportService.
func NewExportService(records exportConductRepository, students exportStudentRepository, audit auditWriter, logger *zap.Logger, cfg config.ExportsConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		records:  records,
		students: students,
		audit:    audit,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		cfg:      cfg,
	}
}

// ConductHistory renders the student's full conduct history in the requested
// format.
func (s *ExportService) ConductHistory(ctx context.Context, actorID, studentID string, format ExportFormat) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	rows, err := s.records.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conduct records")
	}
	if s.cfg.MaxRecords > 0 && len(rows) > s.cfg.MaxRecords {
		rows = rows[:s.cfg.MaxRecords]
	}

	dataset := buildConductDataset(rows)

	var content []byte
	var contentType string
	switch format {
	case FormatCSV:
		content, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case FormatPDF:
		title := fmt.Sprintf("Conduct History - %s (%s)", student.FullName(), student.StudentNumber)
		content, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     models.AuditActionExport,
		Resource:   "conduct_records",
		ResourceID: &studentID,
		NewValues:  []byte(fmt.Sprintf(`{"format":%q,"rows":%d}`, format, len(rows))),
	}); err != nil {
		s.logger.Warn("failed to record export audit log", zap.Error(err))
	}

	return &ExportResult{
		Content:     content,
		ContentType: contentType,
		Filename:    fmt.Sprintf("conduct-history-%s.%s", student.StudentNumber, format),
	}, nil
}

func buildConductDataset(rows []models.ConductRecordRow) export.Dataset {
	headers := []string{"Date", "Category", "Serious", "Description", "Sanction", "Context", "Status", "Reported By", "Resolved By"}
	dataset := export.Dataset{Headers: headers, Rows: make([]map[string]string, 0, len(rows))}

	for _, row := range rows {
		status, _ := ledger.StatusOf(row.Resolutions)
		days, other := ledger.EffectiveSanction(&row.ConductRecord, row.Resolutions)

		reportedBy := transform.UnknownFaculty
		if row.Reporter != nil {
			reportedBy = row.Reporter.FullName()
		}
		resolvedBy := ""
		if len(row.Resolutions) > 0 {
			resolvedBy = transform.UnknownAdmin
			if admin := row.Resolutions[0].Admin; admin != nil {
				resolvedBy = admin.FullName()
			}
		}

		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":        row.CreatedAt.Format("2006-01-02"),
			"Category":    string(row.Category),
			"Serious":     strconv.FormatBool(row.IsSerious),
			"Description": row.Description,
			"Sanction":    transform.FormatSanction(days, other),
			"Context":     string(row.SanctionContext),
			"Status":      string(status),
			"Reported By": reportedBy,
			"Resolved By": resolvedBy,
		})
	}
	return dataset
}
