// Package mail sends transactional email.
package mail

import (
	"context"
	"html/template"
	"log/slog"
	"net"
	"time"

	"foodorder/config"
	deliverycontext "foodorder/internal/delivery/context"
	"foodorder/internal/domain/service"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"
)

const (
	verificationSubject = "Verify your email"
	dialTimeout         = 10 * time.Second
)

//nolint:gochecknoglobals
var verificationTemplate = template.Must(template.New("verification").Parse(`<p>Hello {{.Name}},</p>
<p>Please confirm your email address by opening the link below.</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>This link will expire in 15 minutes.</p>`))

type sendFunc func(ctx context.Context, msg *gomail.Msg) error

type smtpMailer struct {
	cfg    *config.SMTPConfig
	send   sendFunc
	logger *slog.Logger
}

// logMailer is used when no SMTP host is configured; it only logs the link.
type logMailer struct {
	logger *slog.Logger
}

// NewMailer returns an SMTP mailer, or a log-only mailer without an SMTP host.
func NewMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		logger.Info("SMTP not configured, verification links are logged only")

		return &logMailer{logger: logger}
	}

	mailer := &smtpMailer{cfg: cfg.SMTP, logger: logger}
	mailer.send = mailer.dialAndSend

	return mailer
}

// SendVerification renders and sends the verification email. The SMTP
// exchange is bounded by ctx.
func (m *smtpMailer) SendVerification(ctx context.Context, to, name, link string) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	msg, err := buildVerificationMessage(m.cfg.From, to, name, link)
	if err != nil {
		return err
	}

	if err := m.send(ctx, msg); err != nil {
		return errors.Wrap(err, "failed to send verification email")
	}

	deliverycontext.GetLoggerOrDefault(ctx, m.logger).Info("Verification email sent", slog.String("to", to))

	return nil
}

func (m *smtpMailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(dialTimeout),
		gomail.WithDialContextFunc(dialWithDeadline),
	}
	if m.cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(m.cfg.Port))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create SMTP client")
	}

	return errors.WithStack(client.DialAndSendWithContext(ctx, msg))
}

// dialWithDeadline carries the context deadline onto the connection so a
// server that never greets cannot hold the sender past it.
func dialWithDeadline(ctx context.Context, network, address string) (net.Conn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()

			return nil, err
		}
	}

	return conn, nil
}

func (m *logMailer) SendVerification(ctx context.Context, to, _, link string) error {
	deliverycontext.GetLoggerOrDefault(ctx, m.logger).Info("Verification link",
		slog.String("to", to),
		slog.String("link", link),
	)

	return nil
}

func buildVerificationMessage(from, to, name, link string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, errors.Wrap(err, "invalid sender address")
	}
	if err := msg.To(to); err != nil {
		return nil, errors.Wrap(err, "invalid recipient address")
	}
	msg.Subject(verificationSubject)

	data := map[string]string{"Name": name, "Link": link}
	if err := msg.SetBodyHTMLTemplate(verificationTemplate, data); err != nil {
		return nil, errors.Wrap(err, "failed to render verification email")
	}

	return msg, nil
}
