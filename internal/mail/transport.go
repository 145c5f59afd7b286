package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/wondertwin-ai/videoinvite/internal/config"
)

// Transport delivers a single message. Implementations make one attempt.
type Transport interface {
	Send(ctx context.Context, m Message) error
}

// NewTransport builds the transport selected by cfg.Kind.
func NewTransport(cfg config.TransportConfig, logger *slog.Logger) (Transport, error) {
	switch cfg.Kind {
	case config.TransportSMTP:
		return NewSMTPTransport(cfg), nil
	case config.TransportSendmail:
		return NewSendmailTransport(cfg.SendmailPath), nil
	case config.TransportMemory:
		return NewMemoryTransport(logger, defaultOutboxLimit), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
	}
}

// SMTPTransport dials the configured relay for every message.
type SMTPTransport struct {
	dialer *gomail.Dialer
}

// NewSMTPTransport configures a gomail dialer from cfg.
func NewSMTPTransport(cfg config.TransportConfig) *SMTPTransport {
	return &SMTPTransport{dialer: newDialer(cfg)}
}

func newDialer(cfg config.TransportConfig) *gomail.Dialer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	switch cfg.Security {
	case "tls":
		d.SSL = true
	case "starttls":
		d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	}
	return d
}

// Send delivers m over SMTP. gomail has no context support, so ctx is only
// checked before dialing.
func (t *SMTPTransport) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.dialer.DialAndSend(m.gomailMessage()); err != nil {
		return fmt.Errorf("smtp send %s: %w", m.ID, err)
	}
	return nil
}

// SendmailTransport pipes messages into a local sendmail binary.
type SendmailTransport struct {
	path string
}

// NewSendmailTransport uses the sendmail-compatible binary at path.
func NewSendmailTransport(path string) *SendmailTransport {
	return &SendmailTransport{path: path}
}

// Send runs `sendmail -oi -f <from> -- <rcpts>` with the MIME message on stdin.
func (t *SendmailTransport) Send(ctx context.Context, m Message) error {
	sender := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		args := append([]string{"-oi", "-f", from, "--"}, to...)
		cmd := exec.CommandContext(ctx, t.path, args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return fmt.Errorf("sendmail stdin: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("starting %s: %w", t.path, err)
		}
		_, writeErr := msg.WriteTo(stdin)
		closeErr := stdin.Close()
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("%s: %w: %s", t.path, err, strings.TrimSpace(stderr.String()))
		}
		if writeErr != nil {
			return fmt.Errorf("writing message to sendmail: %w", writeErr)
		}
		return closeErr
	})

	if err := gomail.Send(sender, m.gomailMessage()); err != nil {
		return fmt.Errorf("sendmail send %s: %w", m.ID, err)
	}
	return nil
}
