package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/internal/ledger"
	"github.com/vsu-ncs/conduct-api/internal/models"
	"github.com/vsu-ncs/conduct-api/internal/repository"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
)

type conductWriteRepository interface {
	Create(ctx context.Context, record *models.ConductRecord) error
	GetRow(ctx context.Context, id string) (*models.ConductRecordRow, error)
	Resolve(ctx context.Context, resolution *models.InfractionResolution) error
}

type serviceLogWriteRepository interface {
	Create(ctx context.Context, log *models.ServiceLog) error
}

type studentProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentProfile, error)
}

type staffProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.StaffProfile, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type cacheInvalidator interface {
	Delete(ctx context.Context, key string) error
}

// ConductService is the single write path into the conduct ledger. Every
// mutation validates, persists, invalidates the affected balance cache and
// dispatches notifications; reads never mutate.
type ConductService struct {
	records       conductWriteRepository
	serviceLogs   serviceLogWriteRepository
	students      studentProfileRepository
	staff         staffProfileRepository
	audit         auditWriter
	cache         cacheInvalidator
	notifications *NotificationService
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewConductService constructs a ConductService.
func NewConductService(records conductWriteRepository, serviceLogs serviceLogWriteRepository, students studentProfileRepository, staff staffProfileRepository, audit auditWriter, cache cacheInvalidator, notifications *NotificationService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ConductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &ConductService{
		records:       records,
		serviceLogs:   serviceLogs,
		students:      students,
		staff:         staff,
		audit:         audit,
		cache:         cache,
		notifications: notifications,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
	}
}

// FileConductRecord files a merit, demerit or serious infraction on behalf of
// the authenticated faculty member. Category "serious" and is_serious=true are
// equivalent; serious filings are normalised before persisting: category
// becomes demerit and the sanction fields are zeroed, since the real sanction
// is set at resolution time.
func (s *ConductService) FileConductRecord(ctx context.Context, facultyID string, req dto.FileConductRecordRequest) (*models.ConductRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid conduct record payload")
	}
	serious := req.IsSerious || req.Category == dto.CategorySerious
	if !serious && req.Category == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "category is required")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	record := &models.ConductRecord{
		ID:              uuid.NewString(),
		StudentID:       req.StudentID,
		FacultyID:       facultyID,
		Category:        models.ConductCategory(req.Category),
		IsSerious:       req.IsSerious,
		Description:     req.Description,
		SanctionDays:    req.SanctionDays,
		SanctionContext: models.SanctionContext(req.SanctionContext),
		SanctionOther:   req.SanctionOther,
		CreatedAt:       time.Now().UTC(),
	}
	if serious {
		record.Category = models.CategoryDemerit
		record.IsSerious = true
		record.SanctionDays = 0
		record.SanctionOther = nil
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to file conduct record")
	}

	s.metrics.RecordFiled(string(record.Category), record.IsSerious)
	s.invalidateBalance(ctx, record.StudentID)
	s.writeAudit(ctx, facultyID, models.AuditActionRecordFiled, "conduct_records", record.ID, record)
	s.notifications.ConductRecordFiled(record, student, s.reporter(ctx, facultyID))

	return record, nil
}

// FileServiceLog credits extension duty served against a student's balance.
func (s *ConductService) FileServiceLog(ctx context.Context, facultyID string, req dto.FileServiceLogRequest) (*models.ServiceLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid service log payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	log := &models.ServiceLog{
		ID:           uuid.NewString(),
		StudentID:    req.StudentID,
		FacultyID:    facultyID,
		DaysDeducted: req.DaysDeducted,
		Description:  req.Description,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.serviceLogs.Create(ctx, log); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to file service log")
	}

	s.metrics.ServiceLogFiled()
	s.invalidateBalance(ctx, log.StudentID)
	s.writeAudit(ctx, facultyID, models.AuditActionServiceLogged, "service_logs", log.ID, log)
	s.notifications.ServiceLogFiled(log, student, s.reporter(ctx, facultyID))

	return log, nil
}

// ResolveInfraction adjudicates a pending serious infraction. The resolution
// insert and the parent sanction overwrite commit in one transaction; a
// concurrent second resolve loses at the unique constraint and surfaces as an
// integrity conflict.
func (s *ConductService) ResolveInfraction(ctx context.Context, adminID, reportID string, req dto.ResolveInfractionRequest) (*models.InfractionResolution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid resolution payload")
	}

	row, err := s.records.GetRow(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	if ok, reason := ledger.CanResolve(&row.ConductRecord, row.Resolutions); !ok {
		if len(row.Resolutions) > 0 {
			return nil, appErrors.Clone(appErrors.ErrIntegrity, reason)
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, reason)
	}

	resolution := &models.InfractionResolution{
		ID:                 uuid.NewString(),
		ReportID:           reportID,
		AdminID:            adminID,
		FinalSanctionDays:  req.FinalSanctionDays,
		FinalSanctionOther: req.FinalSanctionOther,
		Notes:              req.Notes,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.records.Resolve(ctx, resolution); err != nil {
		if errors.Is(err, repository.ErrDuplicateResolution) {
			return nil, appErrors.Clone(appErrors.ErrIntegrity, "report is already resolved")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve infraction")
	}

	s.metrics.InfractionResolved()
	s.invalidateBalance(ctx, row.StudentID)
	s.writeAudit(ctx, adminID, models.AuditActionResolution, "infraction_resolutions", resolution.ID, resolution)
	s.notifications.InfractionResolved(&row.ConductRecord, resolution, row.Student, row.Reporter)

	return resolution, nil
}

func (s *ConductService) invalidateBalance(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, repository.BalanceKey(studentID)); err != nil {
		s.logger.Warn("balance cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
}

func (s *ConductService) writeAudit(ctx context.Context, actorID, action, resource, resourceID string, payload interface{}) {
	values, err := json.Marshal(payload)
	if err != nil {
		values = nil
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  values,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *ConductService) reporter(ctx context.Context, facultyID string) *models.StaffProfile {
	profile, err := s.staff.FindByID(ctx, facultyID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load reporter profile", zap.String("faculty_id", facultyID), zap.Error(err))
		}
		return nil
	}
	return profile
}
