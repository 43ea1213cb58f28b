package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/resend/resend-go/v2"
)

// Message is one outgoing HTML email
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers email
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender delivers through the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender using apiKey, sending as from
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send delivers msg
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}

	slog.Debug("email sent", "id", sent.Id, "to", msg.To)
	return nil
}

// LogSender writes emails to the log instead of delivering them
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a development sender
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs msg
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email not delivered (no RESEND_API_KEY)",
		"to", msg.To,
		"replyTo", msg.ReplyTo,
		"subject", msg.Subject,
		"html", msg.HTML,
	)
	return nil
}

// Recorder keeps sent messages in memory; tests use it to inspect outgoing mail
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	Err  error // returned from Send when set
}

// Send records msg, or returns r.Err
func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}
