// Package notify renders and dispatches the templated emails: signup OTP,
// password-reset OTP, and cancellation-status updates.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/email"
)

var otpTmpl = template.Must(template.New("otp").Parse(`<p>Hello {{.FirstName}},</p>
<p>Your verification code for CourtDesk is: <strong>{{.OTP}}</strong></p>
<p>If you did not request this, please ignore this email.</p>
<p>Regards,<br/>The CourtDesk Team</p>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<p>Hello {{.FirstName}},</p>
<p>We received a request to reset your CourtDesk password.</p>
<p>Your password reset code is: <strong>{{.OTP}}</strong></p>
<p>If you did not request this, please ignore this email and your password will remain unchanged.</p>
<p>Regards,<br/>The CourtDesk Team</p>`))

var cancellationTmpl = template.Must(template.New("cancellation").Parse(`<p>Hello,</p>
<p>This is an update regarding your booking cancellation request.</p>
<p><b>Booking Details:</b></p>
<ul>
	<li><b>Court:</b> {{.CourtName}}</li>
	<li><b>Date:</b> {{.Date}}</li>
	<li><b>Time:</b> {{.TimeSlot}}</li>
</ul>
<p>Your cancellation request has been <strong>{{.Decision}}</strong>.</p>
<p>{{if .Approved}}The booking has been cancelled and the slot is now available for others.{{else}}Your booking remains active. Please contact us if you have any questions.{{end}}</p>
<p>Regards,<br/>The CourtDesk Team</p>`))

type Notifier struct {
	sender email.Sender
	logger *slog.Logger
}

func New(sender email.Sender, logger *slog.Logger) *Notifier {
	return &Notifier{sender: sender, logger: logger}
}

// VerificationOTP mails a signup verification code. The error is returned so
// the caller can refuse to proceed with an unverifiable address.
func (n *Notifier) VerificationOTP(ctx context.Context, to, firstName, otp string) error {
	const op = "notify.VerificationOTP"

	body, err := render(otpTmpl, map[string]string{"FirstName": firstName, "OTP": otp})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	res, err := n.sender.Send(ctx, email.Message{
		To:      to,
		Subject: "Your CourtDesk Verification Code",
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	n.logger.Info("verification otp sent", "to", to, "message_id", res.MessageID)
	return nil
}

// PasswordResetOTP mails a password-reset code.
func (n *Notifier) PasswordResetOTP(ctx context.Context, to, firstName, otp string) error {
	const op = "notify.PasswordResetOTP"

	body, err := render(resetTmpl, map[string]string{"FirstName": firstName, "OTP": otp})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	res, err := n.sender.Send(ctx, email.Message{
		To:      to,
		Subject: "Your CourtDesk Password Reset Code",
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	n.logger.Info("password reset otp sent", "to", to, "message_id", res.MessageID)
	return nil
}

// CancellationStatus mails the outcome of a cancellation request. Best
// effort: the decision is already committed, so failures are only logged.
func (n *Notifier) CancellationStatus(ctx context.Context, booking domain.Booking, courtName string, approved bool) {
	decision := "rejected"
	subject := "Update on your Cancellation Request"
	if approved {
		decision = "approved"
		subject = "Your Cancellation Request has been Approved"
	}

	body, err := render(cancellationTmpl, map[string]any{
		"CourtName": courtName,
		"Date":      booking.Date,
		"TimeSlot":  booking.TimeSlot,
		"Decision":  decision,
		"Approved":  approved,
	})
	if err != nil {
		n.logger.Error("cancellation email render failed", "booking_id", booking.ID, "error", err)
		return
	}

	res, err := n.sender.Send(ctx, email.Message{
		To:      booking.UserEmail,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		n.logger.Error("cancellation email send failed", "booking_id", booking.ID, "error", err)
		return
	}

	n.logger.Info("cancellation status sent", "booking_id", booking.ID, "decision", decision, "message_id", res.MessageID)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
