// Package email sends HTML email through the configured transport.
//
// The default transport is an SMTP relay (wneessen/go-mail) with static
// credentials; Resend (resend-go) is available as an API-based alternative.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Message is one outgoing HTML email.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Receipt describes how the transport accepted a message.
type Receipt struct {
	MessageID string   `json:"messageId"`
	Accepted  []string `json:"accepted"`
	Response  string   `json:"response"`
}

// Transport delivers a fully addressed message.
type Transport interface {
	Send(ctx context.Context, from string, msg Message) (*Receipt, error)
}

// Client sends messages from the configured sender address.
type Client struct {
	transport Transport
	from      string
	timeout   time.Duration
	logger    *zerolog.Logger
}

// NewClient builds a Client for the transport selected in config.
func NewClient(cfg *config.EmailConfig, logger *zerolog.Logger) (*Client, error) {
	var transport Transport

	switch cfg.Provider {
	case config.EmailProviderSMTP:
		t, err := NewSMTPTransport(cfg)
		if err != nil {
			return nil, err
		}
		transport = t
	case config.EmailProviderResend:
		transport = NewResendTransport(cfg.ResendAPIKey)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}

	return NewClientWithTransport(transport, cfg.From, cfg.Timeout, logger), nil
}

// NewClientWithTransport builds a Client around an existing transport.
func NewClientWithTransport(transport Transport, from string, timeout time.Duration, logger *zerolog.Logger) *Client {
	return &Client{
		transport: transport,
		from:      from,
		timeout:   timeout,
		logger:    logger,
	}
}

// Send delivers msg synchronously and returns the transport receipt.
func (c *Client) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("email has no recipients")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	receipt, err := c.transport.Send(ctx, c.from, msg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send email to %s", strings.Join(msg.To, ","))
	}

	c.logger.Info().
		Str("message_id", receipt.MessageID).
		Strs("to", msg.To).
		Msg("email sent")

	return receipt, nil
}
