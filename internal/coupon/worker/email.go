package worker

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/acadly/paperpay/kafka"
	"github.com/acadly/paperpay/pkg/logger"
)

// EmailWorker consumes coupon-issued events and mails the code to the
// student. Delivery is best effort: a failed send is logged and the event is
// acked, never retried into the publish flow.
type EmailWorker struct {
	smtpAddr string // host:port, empty disables real delivery
	from     string
	auth     smtp.Auth
}

// NewEmailWorker creates an email worker. With an empty smtpAddr the worker
// only logs what it would have sent, which keeps local development free of an
// SMTP dependency.
func NewEmailWorker(smtpAddr, from, username, password string) *EmailWorker {
	var auth smtp.Auth
	if username != "" {
		host := smtpAddr
		for i := range host {
			if host[i] == ':' {
				host = host[:i]
				break
			}
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &EmailWorker{
		smtpAddr: smtpAddr,
		from:     from,
		auth:     auth,
	}
}

// HandleCouponIssued sends the coupon email for one event
func (w *EmailWorker) HandleCouponIssued(ctx context.Context, event kafka.CouponIssuedEvent) error {
	if event.StudentEmail == "" {
		logger.Warn(ctx).
			Uint("student_id", event.StudentID).
			Str("code", event.Code).
			Msg("Coupon issued event without student email, skipping")
		return nil
	}

	if w.smtpAddr == "" {
		logger.Info(ctx).
			Str("to", event.StudentEmail).
			Str("code", event.Code).
			Str("paper_title", event.PaperTitle).
			Msg("SMTP disabled, coupon email logged only")
		return nil
	}

	body := fmt.Sprintf(
		"To: %s\r\nSubject: Your coupon for %s\r\n\r\n"+
			"You have been issued a coupon for the paper %q.\r\n\r\n"+
			"Coupon code: %s\r\n\r\n"+
			"Redeem it from the paper page to get free access.\r\n",
		event.StudentEmail, event.PaperTitle, event.PaperTitle, event.Code,
	)

	if err := smtp.SendMail(w.smtpAddr, w.auth, w.from, []string{event.StudentEmail}, []byte(body)); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("to", event.StudentEmail).
			Str("code", event.Code).
			Msg("Failed to send coupon email")
		return nil
	}

	logger.Info(ctx).
		Str("to", event.StudentEmail).
		Str("code", event.Code).
		Msg("Coupon email sent")
	return nil
}
