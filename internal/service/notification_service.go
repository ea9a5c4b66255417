package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/dto"
	"github.com/noah-isme/spms-api/internal/grading"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/jobs"
	"github.com/noah-isme/spms-api/pkg/mailer"
)

const digestJobType = "alert_digest"

// NotificationConfig tunes the digest worker pool.
type NotificationConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// NotificationService emails each at-risk student a digest of their alerts through a
// background queue.
type NotificationService struct {
	alerts  atRiskSource
	mailer  mailer.Mailer
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService constructs the service and its queue. Call Start before Notify.
func NewNotificationService(alerts atRiskSource, m mailer.Mailer, metrics *MetricsService, cfg NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = mailer.NewLogMailer(logger)
	}
	s := &NotificationService{alerts: alerts, mailer: m, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("alert-digest", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		OnOutcome:  s.outcome,
		Logger:     logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts the workers. Digests still queued are dropped.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Notify computes the at-risk roster and queues one digest per student with an email.
func (s *NotificationService) Notify(ctx context.Context) (*dto.NotifyResponse, error) {
	entries, err := s.alerts.AtRisk(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.NotifyResponse{Success: true}
	for _, entry := range entries {
		if strings.TrimSpace(entry.Student.Email) == "" {
			resp.Skipped++
			continue
		}
		if err := s.queue.Enqueue(jobs.Job{Type: digestJobType, Payload: entry}); err != nil {
			s.logger.Warn("failed to queue alert digest", zap.String("student_id", entry.Student.ID), zap.Error(err))
			resp.Skipped++
			continue
		}
		resp.Queued++
	}
	s.logger.Info("alert digest queued", zap.Int("queued", resp.Queued), zap.Int("skipped", resp.Skipped))
	return resp, nil
}

// RunScheduled is the cron entry point.
func (s *NotificationService) RunScheduled(ctx context.Context) error {
	_, err := s.Notify(ctx)
	return err
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(grading.AtRiskEntry)
	if !ok {
		return appErrors.Clone(appErrors.ErrInternal, "unexpected digest payload")
	}
	return s.mailer.Send(ctx, DigestMessage(entry))
}

func (s *NotificationService) outcome(job jobs.Job, err error) {
	s.metrics.RecordDigest(err == nil)
}

// DigestMessage renders the plain text digest for one roster entry.
func DigestMessage(entry grading.AtRiskEntry) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", entry.Student.Name)
	fmt.Fprintf(&b, "Your current average is %.2f%% with %.2f%% attendance across %d subject(s).\n\n",
		entry.Metrics.AverageMarks, entry.Metrics.AverageAttendance, entry.Metrics.TotalSubjects)
	b.WriteString("Alerts:\n")
	for _, alert := range entry.Alerts {
		fmt.Fprintf(&b, "- [%s] %s\n", alert.Type, alert.Message)
		for _, subject := range alert.Subjects {
			fmt.Fprintf(&b, "    %s (%s): %.2f%%\n", subject.Name, subject.Code, subject.Percentage)
		}
	}
	b.WriteString("\nPlease reach out to your teachers for support.\n")

	subject := "Performance alert"
	if entry.AlertLevel == grading.SeverityCritical {
		subject = "Critical performance alert"
	}
	return mailer.Message{
		To:      mail.Address{Name: entry.Student.Name, Address: entry.Student.Email},
		Subject: subject,
		Text:    b.String(),
	}
}
