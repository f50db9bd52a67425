package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"docvault/internal/config"
)

// Mailer sends user-facing notification mail. Sends are best-effort at the
// call sites: failures are logged and never turned into request errors.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, code string) error
}

// SMTPMailer implements Mailer over plain SMTP.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

var _ Mailer = (*SMTPMailer)(nil)

// SendPasswordReset mails a reset code. The body never echoes anything beyond
// the code itself.
func (s *SMTPMailer) SendPasswordReset(ctx context.Context, to, code string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject("Password reset code")
	msg.SetBodyString(mail.TypeTextPlain,
		fmt.Sprintf("Your password reset code is: %s. It expires in 10 minutes.\nIf you did not request this, please secure your account.", code))

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
