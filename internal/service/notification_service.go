package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsu-ncs/conduct-api/internal/models"
	"github.com/vsu-ncs/conduct-api/internal/transform"
	"github.com/vsu-ncs/conduct-api/pkg/config"
	"github.com/vsu-ncs/conduct-api/pkg/jobs"
	"github.com/vsu-ncs/conduct-api/pkg/mailer"
)

const (
	jobConductFiled  = "notify.conduct_filed"
	jobServiceFiled  = "notify.service_filed"
	jobInfractionRes = "notify.infraction_resolved"
)

type notificationUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type conductFiledPayload struct {
	StudentID   string
	StudentName string
	FacultyName string
	Category    models.ConductCategory
	Description string
	FiledAt     time.Time
}

type serviceFiledPayload struct {
	StudentID    string
	StudentName  string
	FacultyName  string
	DaysDeducted int
	Description  string
	FiledAt      time.Time
}

type resolutionPayload struct {
	StudentID     string
	StudentName   string
	ReporterID    string
	ReporterName  string
	FiledAt       time.Time
	FinalSanction string
	AdminNotes    string
}

// NotificationService dispatches transactional emails off the request path.
// Delivery is fire and forget: failures are logged and counted, never
// surfaced to the caller.
type NotificationService struct {
	users   notificationUserRepository
	sender  mailer.Sender
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	cfg     config.NotificationsConfig
}

// NewNotificationService builds the dispatcher and its worker queue.
func NewNotificationService(users notificationUserRepository, sender mailer.Sender, metrics *MetricsService, logger *zap.Logger, cfg config.NotificationsConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		users:   users,
		sender:  sender,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
	s.queue = jobs.NewQueue("notifications", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the background workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue and stops the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// ConductRecordFiled notifies the student that a record was filed against
// (or in favour of) them.
func (s *NotificationService) ConductRecordFiled(record *models.ConductRecord, student *models.StudentProfile, reporter *models.StaffProfile) {
	if s == nil || !s.cfg.Enabled || record == nil {
		return
	}
	s.enqueue(jobConductFiled, conductFiledPayload{
		StudentID:   record.StudentID,
		StudentName: student.FullName(),
		FacultyName: reporterName(reporter),
		Category:    record.Category,
		Description: record.Description,
		FiledAt:     record.CreatedAt,
	})
}

// ServiceLogFiled notifies the student that extension duty was credited.
func (s *NotificationService) ServiceLogFiled(log *models.ServiceLog, student *models.StudentProfile, reporter *models.StaffProfile) {
	if s == nil || !s.cfg.Enabled || log == nil {
		return
	}
	s.enqueue(jobServiceFiled, serviceFiledPayload{
		StudentID:    log.StudentID,
		StudentName:  student.FullName(),
		FacultyName:  reporterName(reporter),
		DaysDeducted: log.DaysDeducted,
		Description:  log.Description,
		FiledAt:      log.CreatedAt,
	})
}

// InfractionResolved notifies both the student and the original reporter of
// the adjudication outcome.
func (s *NotificationService) InfractionResolved(record *models.ConductRecord, resolution *models.InfractionResolution, student *models.StudentProfile, reporter *models.StaffProfile) {
	if s == nil || !s.cfg.Enabled || record == nil || resolution == nil {
		return
	}
	s.enqueue(jobInfractionRes, resolutionPayload{
		StudentID:     record.StudentID,
		StudentName:   student.FullName(),
		ReporterID:    record.FacultyID,
		ReporterName:  reporterName(reporter),
		FiledAt:       record.CreatedAt,
		FinalSanction: transform.FormatSanction(resolution.FinalSanctionDays, resolution.FinalSanctionOther),
		AdminNotes:    resolution.Notes,
	})
}

func (s *NotificationService) enqueue(jobType string, payload interface{}) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobType,
		Payload: payload,
	})
	if err != nil {
		s.logger.Warn("notification dropped", zap.String("type", jobType), zap.Error(err))
		s.metrics.NotificationFailed()
	}
}

func (s *NotificationService) process(ctx context.Context, job jobs.Job) error {
	switch payload := job.Payload.(type) {
	case conductFiledPayload:
		subject, body := mailer.ConductReportEmail(
			payload.StudentName,
			string(payload.Category),
			payload.Description,
			payload.FiledAt.Format("January 2, 2006"),
			payload.FacultyName,
			s.cfg.PortalURL,
		)
		return s.deliver(ctx, payload.StudentID, subject, body)
	case serviceFiledPayload:
		subject, body := mailer.ServiceLogEmail(
			payload.StudentName,
			payload.DaysDeducted,
			payload.Description,
			payload.FiledAt.Format("January 2, 2006"),
			payload.FacultyName,
			s.cfg.PortalURL,
		)
		return s.deliver(ctx, payload.StudentID, subject, body)
	case resolutionPayload:
		filed := payload.FiledAt.Format("January 2, 2006")
		subject, body := mailer.ResolutionEmailForStudent(payload.StudentName, filed, payload.FinalSanction, payload.AdminNotes, s.cfg.PortalURL)
		studentErr := s.deliver(ctx, payload.StudentID, subject, body)

		subject, body = mailer.ResolutionEmailForReporter(payload.ReporterName, payload.StudentName, filed, payload.FinalSanction, payload.AdminNotes, s.cfg.PortalURL)
		reporterErr := s.deliver(ctx, payload.ReporterID, subject, body)

		if studentErr != nil {
			return studentErr
		}
		return reporterErr
	default:
		return fmt.Errorf("unknown notification job type %q", job.Type)
	}
}

// deliver resolves the recipient's email via their user account and sends.
// Profile IDs double as user IDs.
func (s *NotificationService) deliver(ctx context.Context, userID, subject, body string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.metrics.NotificationFailed()
		return fmt.Errorf("resolve recipient %s: %w", userID, err)
	}
	if err := s.sender.Send(user.Email, subject, body); err != nil {
		s.metrics.NotificationFailed()
		return fmt.Errorf("send to %s: %w", user.Email, err)
	}
	return nil
}

func reporterName(reporter *models.StaffProfile) string {
	if reporter == nil {
		return transform.UnknownFaculty
	}
	return reporter.FullName()
}
