package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/email"
)

type captureSender struct {
	last email.Message
	err  error
}

func (c *captureSender) Send(_ context.Context, msg email.Message) (email.Result, error) {
	c.last = msg
	if c.err != nil {
		return email.Result{}, c.err
	}
	return email.Result{MessageID: "msg-1"}, nil
}

func newNotifier(sender email.Sender) *Notifier {
	return New(sender, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestVerificationOTP(t *testing.T) {
	sender := &captureSender{}
	n := newNotifier(sender)

	if err := n.VerificationOTP(context.Background(), "mali@example.com", "Mali", "123456"); err != nil {
		t.Fatalf("VerificationOTP: %v", err)
	}

	if sender.last.To != "mali@example.com" {
		t.Errorf("to = %q", sender.last.To)
	}
	if !strings.Contains(sender.last.HTML, "123456") {
		t.Error("body missing the code")
	}
	if !strings.Contains(sender.last.HTML, "Hello Mali") {
		t.Error("body missing the greeting")
	}
	if !strings.Contains(sender.last.HTML, "please ignore this email") {
		t.Error("body missing the ignore line")
	}
}

func TestVerificationOTPPropagatesTransportError(t *testing.T) {
	boom := errors.New("smtp down")
	n := newNotifier(&captureSender{err: boom})

	if err := n.VerificationOTP(context.Background(), "mali@example.com", "Mali", "123456"); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped transport error", err)
	}
}

func TestCancellationStatusBody(t *testing.T) {
	b := domain.Booking{
		ID:        "b-1",
		Date:      "2024-06-01",
		TimeSlot:  "14:00 - 15:00 & 15:00 - 16:00",
		UserEmail: "mali@example.com",
		Status:    domain.StatusCancelled,
	}

	tests := []struct {
		name     string
		approved bool
		want     []string
		subject  string
	}{
		{
			name:     "approved",
			approved: true,
			want:     []string{"approved", "slot is now available"},
			subject:  "Your Cancellation Request has been Approved",
		},
		{
			name:     "rejected",
			approved: false,
			want:     []string{"rejected", "booking remains active"},
			subject:  "Update on your Cancellation Request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &captureSender{}
			n := newNotifier(sender)

			n.CancellationStatus(context.Background(), b, "Court 3", tt.approved)

			if sender.last.Subject != tt.subject {
				t.Errorf("subject = %q, want %q", sender.last.Subject, tt.subject)
			}
			// the " & " slot separator is HTML-escaped, so match the labels
			for _, frag := range append(tt.want, "Court 3", "2024-06-01", "14:00 - 15:00", "15:00 - 16:00") {
				if !strings.Contains(sender.last.HTML, frag) {
					t.Errorf("body missing %q", frag)
				}
			}
		})
	}
}

func TestCancellationStatusSwallowsTransportError(t *testing.T) {
	n := newNotifier(&captureSender{err: errors.New("smtp down")})

	// must not panic or propagate: the state change is already committed
	n.CancellationStatus(context.Background(), domain.Booking{UserEmail: "x@example.com"}, "Court 1", true)
}
