package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/banyumasfresh/shop/internal/config"
	"github.com/banyumasfresh/shop/internal/logging"
)

// Sender delivers transactional mail over a plain SMTP relay.
type Sender struct {
	from     string
	password string
	host     string
	port     string
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{
		from:     cfg.SMTP_USER,
		password: cfg.SMTP_PASSWORD,
		host:     cfg.SMTP_HOST,
		port:     cfg.SMTP_PORT,
	}
}

func (s *Sender) SendVerificationEmail(ctx context.Context, to, link string) error {
	subject := "Subject: Email Verification - Banyumas Farm Fresh\n"
	mime := "MIME-version: 1.0;\nContent-Type: text/plain; charset=\"UTF-8\";\n\n"
	body := fmt.Sprintf(`Dear %s,

Thank you for signing up with Banyumas Farm Fresh! To complete your registration and start exploring our fresh produce, please verify your email address by clicking on the verification link below:

Verification Link: %s

Please note that the link will expire after 24 hours for security purposes. If you're unable to click the link, you can copy and paste it into your web browser's address bar.

If you did not create an account on Banyumas Farm Fresh, please ignore this email.

Thank you,
Banyumas Farm Fresh Team
`, to, link)

	msg := []byte(subject + mime + body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	logging.FromContext(ctx).Info("sending verification email", slog.String("to", to))

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
