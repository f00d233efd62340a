package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	mu   sync.Mutex
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func TestMailNotifier_DeliversOnClose(t *testing.T) {
	dialer := &fakeDialer{}
	n := NewMailNotifier(dialer, "office@assoc.test", 4, slog.Default())

	member := domain.Member{FullName: "Jane", Email: "jane@assoc.test", Status: domain.MemberActive}
	require.NoError(t, n.MembershipStatusChanged(context.Background(), member))

	invoice := domain.Invoice{InvoiceNumber: "INV-202501-ABCDEF", Amount: decimal.RequireFromString("25"), DueDate: time.Now()}
	require.NoError(t, n.InvoiceIssued(context.Background(), member, invoice))

	n.Close()

	require.Len(t, dialer.sent, 2)
	assert.Equal(t, []string{"jane@assoc.test"}, dialer.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Your membership is active"}, dialer.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"Invoice INV-202501-ABCDEF"}, dialer.sent[1].GetHeader("Subject"))
}

func TestMailNotifier_ClosedAndMissingRecipient(t *testing.T) {
	n := NewMailNotifier(&fakeDialer{}, "office@assoc.test", 1, slog.Default())

	err := n.MembershipStatusChanged(context.Background(), domain.Member{FullName: "No Mail"})
	assert.Error(t, err)

	n.Close()
	n.Close()
	err = n.MembershipStatusChanged(context.Background(), domain.Member{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMailNotifier_DeliveryFailureIsSwallowed(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("smtp down")}
	n := NewMailNotifier(dialer, "office@assoc.test", 1, slog.Default())
	assert.NoError(t, n.MembershipStatusChanged(context.Background(), domain.Member{Email: "a@b.c", Status: domain.MemberSuspended}))
	n.Close()
	assert.Empty(t, dialer.sent)
}

func TestNew_WithoutHostIsNoop(t *testing.T) {
	n, closeFn := New(SMTPConfig{}, slog.Default())
	defer closeFn()
	_, ok := n.(NoopNotifier)
	assert.True(t, ok)
	assert.NoError(t, n.MembershipStatusChanged(context.Background(), domain.Member{}))
}

func TestMembershipStatusMessage(t *testing.T) {
	subject, body := membershipStatusMessage(domain.Member{FullName: "Ann", Status: domain.MemberRejected})
	assert.Equal(t, "Your membership application", subject)
	assert.Contains(t, body, "Hello Ann")
}
