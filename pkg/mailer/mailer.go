package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is a single outbound email.
type Message struct {
	To      mail.Address
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures the delivery backend.
type Config struct {
	SendGridAPIKey string
	FromAddress    string
	AppName        string
}

// New returns a SendGrid mailer when an API key is configured and a logging mailer otherwise.
func New(cfg Config, logger *zap.Logger) Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SendGridAPIKey == "" {
		logger.Info("SENDGRID_API_KEY not set, emails will be logged only")
		return &LogMailer{logger: logger, subjPrefix: prefix(cfg.AppName)}
	}
	return NewSendGrid(cfg)
}

func prefix(appName string) string {
	if appName == "" {
		return ""
	}
	return "[" + appName + "] "
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*sendgridResponse, error)
}

// sendgridResponse mirrors the status part of the SendGrid REST response.
type sendgridResponse struct {
	StatusCode int
	Body       string
}

type sendgridAdapter struct {
	client *sendgrid.Client
}

func (a sendgridAdapter) SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*sendgridResponse, error) {
	res, err := a.client.SendWithContext(ctx, email)
	if err != nil {
		return nil, err
	}
	return &sendgridResponse{StatusCode: res.StatusCode, Body: res.Body}, nil
}

// SendGridMailer delivers through the SendGrid v3 API.
type SendGridMailer struct {
	client     sendClient
	from       *sgmail.Email
	subjPrefix string
}

// NewSendGrid constructs a SendGrid backed mailer.
func NewSendGrid(cfg Config) *SendGridMailer {
	return &SendGridMailer{
		client:     sendgridAdapter{client: sendgrid.NewSendClient(cfg.SendGridAPIKey)},
		from:       sgmail.NewEmail(cfg.AppName, cfg.FromAddress),
		subjPrefix: prefix(cfg.AppName),
	}
}

// Send delivers msg. Any 4xx/5xx response is returned as an error so the caller can retry.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	res, err := m.client.SendWithContext(ctx, m.prepare(msg))
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send email: sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (m *SendGridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	out := sgmail.NewV3Mail()
	out.SetFrom(m.from)
	out.AddPersonalizations(p)
	out.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		out.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return out
}

// LogMailer writes messages to the logger instead of delivering them.
type LogMailer struct {
	logger     *zap.Logger
	subjPrefix string
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("email",
		zap.String("to", msg.To.String()),
		zap.String("subject", m.subjPrefix+msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}
