// Package mail delivers transactional email over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"log/slog"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"blogsphere/config"
	"blogsphere/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultAppName = "BlogSphere"
	dialTimeout    = 10 * time.Second
)

// SenderParams holds dependencies for MailSender, injected by Fx
type SenderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// sender is implemented by both the SMTP and the log-only sender.
type sender interface {
	service.MailSender
	service.PostNotifier
}

// NewMailSender returns an SMTP sender when mail.host is configured and a
// log-only sender otherwise.
func NewMailSender(params SenderParams) service.MailSender {
	return newSender(params)
}

// NewPostNotifier returns the new-post mailer used by the event worker.
func NewPostNotifier(params SenderParams) service.PostNotifier {
	return newSender(params)
}

func newSender(params SenderParams) sender {
	cfg := params.Config.Mail
	ttl := 10 * time.Minute
	if params.Config.OTP != nil && params.Config.OTP.TTL > 0 {
		ttl = params.Config.OTP.TTL
	}

	if cfg == nil || strings.TrimSpace(cfg.Host) == "" {
		params.Logger.Warn("Mail host not configured, verification emails will not be delivered")

		return &logSender{logger: params.Logger}
	}

	appName := cfg.FromName
	if appName == "" {
		appName = defaultAppName
	}

	port := cfg.Port
	if port == 0 {
		port = 587
	}

	params.Logger.Info("Using SMTP mail sender",
		slog.String("host", cfg.Host),
		slog.Int("port", port),
	)

	return &smtpSender{
		host:     cfg.Host,
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		username: cfg.Username,
		password: cfg.Password,
		from:     mail.Address{Name: appName, Address: cfg.From},
		appName:  appName,
		codeTTL:  ttl,
		logger:   params.Logger,
	}
}

// smtpSender sends HTML mail through an SMTP relay, upgrading to TLS when offered.
type smtpSender struct {
	host     string
	addr     string
	username string
	password string
	from     mail.Address
	appName  string
	codeTTL  time.Duration
	logger   *slog.Logger
}

// SendVerificationCode renders the verification template and delivers it.
func (s *smtpSender) SendVerificationCode(ctx context.Context, email, code string) error {
	body, err := renderVerification(s.appName, code, s.codeTTL)
	if err != nil {
		return err
	}

	msg := buildMessage(s.from, email, verificationSubject, body)
	if err := s.send(ctx, email, msg); err != nil {
		return errors.Wrapf(err, "send verification email to %s", email)
	}

	s.logger.Info("Verification email sent", slog.String("email", email))

	return nil
}

// SendNewPostNotice tells a subscriber about a new post.
func (s *smtpSender) SendNewPostNotice(ctx context.Context, email string, notice *service.PostNotice) error {
	subject, body, err := renderNewPost(s.appName, notice)
	if err != nil {
		return err
	}

	msg := buildMessage(s.from, email, subject, body)
	if err := s.send(ctx, email, msg); err != nil {
		return errors.Wrapf(err, "send new post email to %s", email)
	}

	return nil
}

func (s *smtpSender) send(ctx context.Context, to string, msg []byte) error {
	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return errors.WithStack(err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()

		return errors.WithStack(err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return errors.WithStack(err)
		}
	}

	if s.username != "" {
		if err := client.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
			return errors.WithStack(err)
		}
	}

	if err := client.Mail(s.from.Address); err != nil {
		return errors.WithStack(err)
	}
	if err := client.Rcpt(to); err != nil {
		return errors.WithStack(err)
	}

	writer, err := client.Data()
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := writer.Write(msg); err != nil {
		return errors.WithStack(err)
	}
	if err := writer.Close(); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(client.Quit())
}

func buildMessage(from mail.Address, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	return []byte(b.String())
}

// logSender stands in when no relay is configured. The code itself is never logged.
type logSender struct {
	logger *slog.Logger
}

func (s *logSender) SendVerificationCode(_ context.Context, email, _ string) error {
	s.logger.Warn("Mail delivery disabled, verification code not sent",
		slog.String("email", email),
	)

	return nil
}

func (s *logSender) SendNewPostNotice(_ context.Context, email string, notice *service.PostNotice) error {
	s.logger.Info("Mail delivery disabled, new post notice not sent",
		slog.String("email", email),
		slog.String("link", notice.Link),
	)

	return nil
}
