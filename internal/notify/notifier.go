// Package notify sends best-effort e-mail notifications to members.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"gopkg.in/gomail.v2"
)

// ErrQueueFull is returned when the outbound queue cannot accept more mail.
var ErrQueueFull = errors.New("notification queue is full")

// ErrClosed is returned after Close has been called.
var ErrClosed = errors.New("notifier is closed")

// Notifier tells members about changes that concern them. Implementations
// must not block the caller on delivery.
type Notifier interface {
	MembershipStatusChanged(ctx context.Context, member domain.Member) error
	InvoiceIssued(ctx context.Context, member domain.Member, invoice domain.Invoice) error
}

// NoopNotifier drops every notification. Used when SMTP is not configured.
type NoopNotifier struct{}

func (NoopNotifier) MembershipStatusChanged(context.Context, domain.Member) error { return nil }

func (NoopNotifier) InvoiceIssued(context.Context, domain.Member, domain.Invoice) error { return nil }

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailNotifier queues messages and delivers them from a single worker goroutine.
type MailNotifier struct {
	dialer Dialer
	from   string
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan *gomail.Message
	done   chan struct{}
}

// NewMailNotifier starts a notifier delivering through dialer.
func NewMailNotifier(dialer Dialer, from string, queueSize int, logger *slog.Logger) *MailNotifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	n := &MailNotifier{
		dialer: dialer,
		from:   from,
		logger: logger,
		queue:  make(chan *gomail.Message, queueSize),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

// New returns a MailNotifier for cfg, or a NoopNotifier when no SMTP host is set.
// The returned func flushes pending mail and must be called on shutdown.
func New(cfg SMTPConfig, logger *slog.Logger) (Notifier, func()) {
	if cfg.Host == "" {
		logger.Info("SMTP host not configured, e-mail notifications disabled")
		return NoopNotifier{}, func() {}
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	n := NewMailNotifier(dialer, cfg.From, 64, logger)
	return n, n.Close
}

func (n *MailNotifier) run() {
	defer close(n.done)
	for msg := range n.queue {
		start := time.Now()
		if err := n.dialer.DialAndSend(msg); err != nil {
			n.logger.Error("Failed to send notification",
				slog.String("to", strings.Join(msg.GetHeader("To"), ",")),
				slog.String("error", err.Error()))
			continue
		}
		n.logger.Debug("Notification sent",
			slog.String("subject", strings.Join(msg.GetHeader("Subject"), "")),
			slog.Duration("duration", time.Since(start)))
	}
}

// Close stops accepting mail and waits for queued messages to be delivered.
func (n *MailNotifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()
	<-n.done
}

func (n *MailNotifier) enqueue(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("notification %q has no recipient", subject)
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrClosed
	}
	select {
	case n.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// MembershipStatusChanged informs a member that an admin changed their status.
func (n *MailNotifier) MembershipStatusChanged(_ context.Context, member domain.Member) error {
	subject, body := membershipStatusMessage(member)
	return n.enqueue(member.Email, subject, body)
}

// InvoiceIssued informs a member about a new invoice addressed to them.
func (n *MailNotifier) InvoiceIssued(_ context.Context, member domain.Member, invoice domain.Invoice) error {
	subject := fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)
	body := fmt.Sprintf("Hello %s,\n\nA new invoice %s for %s has been issued to you.\n%s\nDue date: %s\n",
		member.FullName,
		invoice.InvoiceNumber,
		invoice.Amount.StringFixed(2),
		invoice.Description,
		invoice.DueDate.Format("2 January 2006"))
	return n.enqueue(member.Email, subject, body)
}

func membershipStatusMessage(member domain.Member) (string, string) {
	var subject, line string
	switch member.Status {
	case domain.MemberActive:
		subject = "Your membership is active"
		line = "Your membership has been approved. You can now sign in."
	case domain.MemberRejected:
		subject = "Your membership application"
		line = "Unfortunately your membership application was not approved."
	case domain.MemberSuspended:
		subject = "Your membership has been suspended"
		line = "Your membership has been suspended. Please contact the association for details."
	default:
		subject = "Your membership status changed"
		line = fmt.Sprintf("Your membership status is now %s.", member.Status)
	}
	return subject, fmt.Sprintf("Hello %s,\n\n%s\n", member.FullName, line)
}
