package email

import "context"

// SubjectCertificate is the subject line of course completion emails.
const SubjectCertificate = "Certification of completion"

// SendCertificate sends a rendered course completion certificate.
func (c *Client) SendCertificate(ctx context.Context, to, html string) (*Receipt, error) {
	return c.Send(ctx, Message{
		To:      []string{to},
		Subject: SubjectCertificate,
		HTML:    html,
	})
}
