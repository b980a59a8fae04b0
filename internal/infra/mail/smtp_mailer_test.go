package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"foodorder/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSMTPConfig() *config.Config {
	return &config.Config{SMTP: &config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "no-reply@example.com",
	}}
}

func TestSMTPMailer_SendVerification(t *testing.T) {
	mailer := NewMailer(newTestSMTPConfig(), newDiscardLogger()).(*smtpMailer)

	var sent *gomail.Msg
	mailer.send = func(_ context.Context, msg *gomail.Msg) error {
		sent = msg

		return nil
	}

	err := mailer.SendVerification(context.Background(), "new@example.com", "<Ann>", "https://x.test/verify?token=abc")
	require.NoError(t, err)
	require.NotNil(t, sent)

	assert.Equal(t, []string{"<no-reply@example.com>"}, sent.GetFromString())
	assert.Equal(t, []string{"<new@example.com>"}, sent.GetToString())
	assert.Equal(t, []string{verificationSubject}, sent.GetGenHeader(gomail.HeaderSubject))

	parts := sent.GetParts()
	require.Len(t, parts, 1)
	body, err := parts[0].GetContent()
	require.NoError(t, err)
	assert.Contains(t, string(body), "https://x.test/verify?token=abc")
	assert.Contains(t, string(body), "&lt;Ann&gt;")
}

func TestSMTPMailer_InvalidRecipient(t *testing.T) {
	mailer := NewMailer(newTestSMTPConfig(), newDiscardLogger()).(*smtpMailer)
	mailer.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("send must not be called")

		return nil
	}

	err := mailer.SendVerification(context.Background(), "not an address", "Ann", "https://x.test")
	assert.ErrorContains(t, err, "invalid recipient address")
}

func TestSMTPMailer_SendError(t *testing.T) {
	mailer := NewMailer(newTestSMTPConfig(), newDiscardLogger()).(*smtpMailer)
	mailer.send = func(context.Context, *gomail.Msg) error {
		return errors.New("421 service not available")
	}

	err := mailer.SendVerification(context.Background(), "new@example.com", "Ann", "https://x.test")
	assert.ErrorContains(t, err, "failed to send verification email")
}

func TestSMTPMailer_SilentServerHonorsContextDeadline(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	// Accept connections and never send the SMTP greeting.
	go func() {
		var conns []net.Conn
		defer func() {
			for _, conn := range conns {
				_ = conn.Close()
			}
		}()
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()

	host, port, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	cfg := &config.Config{SMTP: &config.SMTPConfig{Host: host, Port: portNum, From: "no-reply@example.com"}}
	mailer := NewMailer(cfg, newDiscardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- mailer.SendVerification(ctx, "new@example.com", "Ann", "https://x.test")
	}()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "failed to send verification email")
	case <-time.After(2 * time.Second):
		t.Fatal("SendVerification did not return after the context deadline")
	}
}

func TestNewMailer_WithoutHostLogsOnly(t *testing.T) {
	mailer := NewMailer(&config.Config{}, newDiscardLogger())

	_, ok := mailer.(*logMailer)
	assert.True(t, ok)
	assert.NoError(t, mailer.SendVerification(context.Background(), "a@example.com", "A", "https://x.test"))
}
