package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/wneessen/go-mail"
)

// implicitTLSPort is the submission port that expects TLS from the first byte.
const implicitTLSPort = 465

// SMTPTransport sends through a fixed relay with PLAIN auth.
type SMTPTransport struct {
	client *mail.Client
	host   string
}

// NewSMTPTransport configures the relay client. Port 465 uses implicit TLS,
// any other port requires STARTTLS.
func NewSMTPTransport(cfg *config.EmailConfig) (*SMTPTransport, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTimeout(cfg.Timeout),
	}

	if cfg.SMTPPort == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smtp client")
	}

	return &SMTPTransport{client: client, host: cfg.SMTPHost}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, from string, msg Message) (*Receipt, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, errors.Wrap(err, "invalid sender address")
	}
	if err := m.To(msg.To...); err != nil {
		return nil, errors.Wrap(err, "invalid recipient address")
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	m.SetMessageID()
	m.SetDate()

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return nil, err
	}

	var messageID string
	if ids := m.GetGenHeader(mail.HeaderMessageID); len(ids) > 0 {
		messageID = ids[0]
	}

	return &Receipt{
		MessageID: messageID,
		Accepted:  msg.To,
		Response:  fmt.Sprintf("250 accepted by %s", t.host),
	}, nil
}

// ResendTransport sends through the Resend HTTP API.
type ResendTransport struct {
	client *resend.Client
}

func NewResendTransport(apiKey string) *ResendTransport {
	return &ResendTransport{client: resend.NewClient(apiKey)}
}

func (t *ResendTransport) Send(ctx context.Context, from string, msg Message) (*Receipt, error) {
	sent, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{
		MessageID: sent.Id,
		Accepted:  msg.To,
		Response:  "accepted by resend: " + strings.Join(msg.To, ","),
	}, nil
}
