package identity

import (
	"context"
	"fmt"
	"time"
)

// resetCodeEmail renders the message handed to the Mailer collaborator when
// a reset code is issued. Plain text; the transport decides presentation.
func resetCodeEmail(name, code string, validFor time.Duration) (subject, body string) {
	if name == "" {
		name = "there"
	}

	subject = "Password Reset Code"
	body = fmt.Sprintf(
		"Hello %s,\n\n"+
			"We received a request to reset the password for your MoodyMap account. "+
			"Use the following code to reset your password:\n\n"+
			"    %s\n\n"+
			"This code is valid for the next %s. If you did not request this, "+
			"please ignore this email.\n\n"+
			"Thank you,\nThe MoodyMap Team\n",
		name, code, humanDuration(validFor),
	)

	return subject, body
}

// logMailer is the development fallback: it records the hand-off instead of
// delivering anything.
type logMailer struct {
	logger Logger
}

// NewLogMailer returns a Mailer that only logs. Useful in tests and local
// development where no SMTP relay exists.
func NewLogMailer(logger Logger) Mailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("mail hand-off to %s subject %q", to, subject)
	m.logger.Debug("mail body: %s", body)
	return nil
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}
