package notifications

import (
	"context"

	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
)

// LogMailer writes rendered emails to the structured log. It backs local
// development where no delivery pipeline exists.
type LogMailer struct {
	from string
	logg *logger.Logger
}

func NewLogMailer(from string, logg *logger.Logger) *LogMailer {
	return &LogMailer{from: from, logg: logg}
}

func (m *LogMailer) SendApprovalEmail(ctx context.Context, msg ApprovalEmail) error {
	email, err := renderApproval(m.from, msg)
	if err != nil {
		return err
	}
	m.log(ctx, email)
	return nil
}

func (m *LogMailer) SendOTPEmail(ctx context.Context, msg OTPEmail) error {
	email, err := renderOTP(m.from, msg)
	if err != nil {
		return err
	}
	m.log(ctx, email)
	return nil
}

func (m *LogMailer) log(ctx context.Context, email Email) {
	if m.logg == nil {
		return
	}
	ctx = m.logg.WithFields(ctx, map[string]any{
		"email_kind":    string(email.Kind),
		"email_to":      email.To,
		"email_subject": email.Subject,
	})
	m.logg.Info(ctx, "email.logged")
}
