package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vsu-ncs/conduct-api/internal/dto"
	"github.com/vsu-ncs/conduct-api/internal/ledger"
	"github.com/vsu-ncs/conduct-api/internal/models"
	"github.com/vsu-ncs/conduct-api/internal/repository"
	"github.com/vsu-ncs/conduct-api/internal/transform"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
)

type conductReadRepository interface {
	ListForStudent(ctx context.Context, studentID string) ([]models.ConductRecordRow, error)
	ListForFaculty(ctx context.Context, facultyID string) ([]models.ConductRecordRow, error)
	ListSerious(ctx context.Context, filter repository.SeriousFilter) ([]models.ConductRecordRow, error)
	ListPlain(ctx context.Context, studentID string) ([]models.ConductRecord, error)
}

type serviceLogReadRepository interface {
	ListForStudent(ctx context.Context, studentID string) ([]models.ServiceLogRow, error)
	ListForFaculty(ctx context.Context, facultyID string) ([]models.ServiceLogRow, error)
	ListPlain(ctx context.Context, studentID string) ([]models.ServiceLog, error)
}

type studentReadRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type balanceCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// RecordService serves the role-specific read views over the conduct ledger.
type RecordService struct {
	records     conductReadRepository
	serviceLogs serviceLogReadRepository
	students    studentReadRepository
	cache       balanceCache
	transformer *transform.Transformer
	metrics     *MetricsService
	logger      *zap.Logger
	cacheTTL    time.Duration
}

// NewRecordService constructs a RecordService.
func NewRecordService(records conductReadRepository, serviceLogs serviceLogReadRepository, students studentReadRepository, cache balanceCache, transformer *transform.Transformer, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if transformer == nil {
		transformer = transform.New(logger)
	}
	return &RecordService{
		records:     records,
		serviceLogs: serviceLogs,
		students:    students,
		cache:       cache,
		transformer: transformer,
		metrics:     metrics,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// StudentRecords returns a student's own conduct history.
func (s *RecordService) StudentRecords(ctx context.Context, studentID string) ([]dto.StudentConductRecord, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	rows, err := s.records.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conduct records")
	}
	return transform.SafeMap(rows, func(row models.ConductRecordRow) *dto.StudentConductRecord {
		return s.transformer.StudentRecord(&row)
	}), nil
}

// StudentServiceLogs returns a student's extension-duty history.
func (s *RecordService) StudentServiceLogs(ctx context.Context, studentID string) ([]dto.StudentServiceLog, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	rows, err := s.serviceLogs.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service logs")
	}
	return transform.SafeMap(rows, func(row models.ServiceLogRow) *dto.StudentServiceLog {
		return s.transformer.StudentServiceLog(&row)
	}), nil
}

// FacultyRecords returns the records a faculty member has filed.
func (s *RecordService) FacultyRecords(ctx context.Context, facultyID string) ([]dto.FacultyConductRecord, error) {
	rows, err := s.records.ListForFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conduct records")
	}
	return transform.SafeMap(rows, func(row models.ConductRecordRow) *dto.FacultyConductRecord {
		return s.transformer.FacultyRecord(&row)
	}), nil
}

// FacultyServiceLogs returns the service logs a faculty member has filed.
func (s *RecordService) FacultyServiceLogs(ctx context.Context, facultyID string) ([]dto.FacultyServiceLog, error) {
	rows, err := s.serviceLogs.ListForFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service logs")
	}
	return transform.SafeMap(rows, func(row models.ServiceLogRow) *dto.FacultyServiceLog {
		return s.transformer.FacultyServiceLog(&row)
	}), nil
}

// Infractions returns the serious-infraction adjudication queue, optionally
// narrowed by workflow status. A non-empty facultyID limits the queue to that
// reporter's own filings.
func (s *RecordService) Infractions(ctx context.Context, status, facultyID string) ([]dto.InfractionTicket, error) {
	filter := repository.SeriousFilter{FacultyID: facultyID}
	switch status {
	case "":
	case string(models.StatusPending):
		filter.Status = models.StatusPending
	case string(models.StatusResolved):
		filter.Status = models.StatusResolved
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be Pending or Resolved")
	}

	rows, err := s.records.ListSerious(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load infractions")
	}
	return transform.SafeMap(rows, func(row models.ConductRecordRow) *dto.InfractionTicket {
		return s.transformer.AdminTicket(&row)
	}), nil
}

// Balance computes the student's sanction balance under both reconciliation
// policies, serving from cache when a fresh summary is available.
func (s *RecordService) Balance(ctx context.Context, studentID string) (*dto.BalanceSummary, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	key := repository.BalanceKey(studentID)
	if s.cache != nil {
		var cached dto.BalanceSummary
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("balance cache read failed", zap.String("student_id", studentID), zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	records, err := s.records.ListPlain(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conduct records")
	}
	logs, err := s.serviceLogs.ListPlain(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service logs")
	}

	summary := ledger.Summarize(studentID, records, logs)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
			s.logger.Warn("balance cache write failed", zap.String("student_id", studentID), zap.Error(err))
		}
	}
	return &summary, nil
}

func (s *RecordService) requireStudent(ctx context.Context, studentID string) error {
	if studentID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	ok, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return nil
}
