package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsu-ncs/conduct-api/internal/models"
	"github.com/vsu-ncs/conduct-api/pkg/config"
	"github.com/vsu-ncs/conduct-api/pkg/jobs"
)

type mockUserLookup struct {
	users map[string]*models.User
}

func (m *mockUserLookup) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, context.Canceled
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type mockSender struct {
	sent []sentMail
	err  error
}

func (m *mockSender) Send(to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func notifyConfig() config.NotificationsConfig {
	return config.NotificationsConfig{
		Enabled:   true,
		PortalURL: "https://conduct.vsu.edu.ph",
	}
}

func testUsers() *mockUserLookup {
	return &mockUserLookup{users: map[string]*models.User{
		"stu-1": {ID: "stu-1", Email: "maria@vsu.edu.ph"},
		"fac-1": {ID: "fac-1", Email: "jose@vsu.edu.ph"},
	}}
}

func TestConductFiledNotificationDelivers(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotificationService(testUsers(), sender, nil, nil, notifyConfig())

	record := &models.ConductRecord{
		StudentID:   "stu-1",
		FacultyID:   "fac-1",
		Category:    models.CategoryDemerit,
		Description: "late for duty",
		CreatedAt:   time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	student := &models.StudentProfile{ID: "stu-1", FirstName: "Maria", LastName: "Cruz"}

	err := svc.process(context.Background(), jobs.Job{
		Type: jobConductFiled,
		Payload: conductFiledPayload{
			StudentID:   record.StudentID,
			StudentName: student.FullName(),
			FacultyName: "Jose Rizal",
			Category:    record.Category,
			Description: record.Description,
			FiledAt:     record.CreatedAt,
		},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "maria@vsu.edu.ph", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "late for duty")
}

func TestResolutionNotifiesBothParties(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotificationService(testUsers(), sender, nil, nil, notifyConfig())

	err := svc.process(context.Background(), jobs.Job{
		Type: jobInfractionRes,
		Payload: resolutionPayload{
			StudentID:     "stu-1",
			StudentName:   "Maria Cruz",
			ReporterID:    "fac-1",
			ReporterName:  "Jose Rizal",
			FiledAt:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			FinalSanction: "3 days",
			AdminNotes:    "final warning",
		},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "maria@vsu.edu.ph", sender.sent[0].to)
	assert.Equal(t, "jose@vsu.edu.ph", sender.sent[1].to)
}

func TestProcessUnknownJobType(t *testing.T) {
	svc := NewNotificationService(testUsers(), &mockSender{}, nil, nil, notifyConfig())

	err := svc.process(context.Background(), jobs.Job{Type: "notify.unknown", Payload: "garbage"})
	assert.Error(t, err)
}

func TestDisabledDispatcherEnqueuesNothing(t *testing.T) {
	sender := &mockSender{}
	cfg := notifyConfig()
	cfg.Enabled = false
	svc := NewNotificationService(testUsers(), sender, nil, nil, cfg)

	svc.ConductRecordFiled(&models.ConductRecord{StudentID: "stu-1"}, &models.StudentProfile{}, nil)
	svc.ServiceLogFiled(&models.ServiceLog{StudentID: "stu-1"}, &models.StudentProfile{}, nil)
	assert.Empty(t, sender.sent)
}
