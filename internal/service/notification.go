package service

import (
	"context"

	"github.com/deppfellow/coursegen/internal/errs"
	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/rs/zerolog"
)

const codeEmailDeliveryFailed = "EMAIL_DELIVERY_FAILED"

type NotificationService struct {
	mailer Mailer
	queue  EmailQueue
	logger *zerolog.Logger
}

// NewNotificationService builds the service. queue may be nil when
// background delivery is disabled.
func NewNotificationService(mailer Mailer, queue EmailQueue, logger *zerolog.Logger) *NotificationService {
	return &NotificationService{mailer: mailer, queue: queue, logger: logger}
}

// SendMail delivers msg now. A delivery failure is reported as a 400 with
// a fixed code; the transport error is only logged.
func (s *NotificationService) SendMail(ctx context.Context, msg email.Message) (*email.Receipt, error) {
	receipt, err := s.mailer.Send(ctx, msg)
	if err != nil {
		requestLogger(ctx, s.logger).Error().Err(err).Strs("to", msg.To).Msg("failed to send email")
		code := codeEmailDeliveryFailed
		return nil, errs.NewBadRequestError("Failed to send email", true, &code, nil, nil)
	}
	return receipt, nil
}

// QueueMail hands msg to the background worker and returns the task id.
func (s *NotificationService) QueueMail(ctx context.Context, msg email.Message) (string, error) {
	if s.queue == nil {
		code := "EMAIL_QUEUE_DISABLED"
		return "", errs.NewBadRequestError("Queued email delivery is not enabled", true, &code, nil, nil)
	}

	taskID, err := s.queue.EnqueueEmail(ctx, msg)
	if err != nil {
		requestLogger(ctx, s.logger).Error().Err(err).Strs("to", msg.To).Msg("failed to enqueue email")
		return "", errs.NewServiceError("Failed to queue email", "EMAIL_QUEUE_FAILED")
	}
	return taskID, nil
}

// SendCertificate emails a course completion certificate to one learner.
func (s *NotificationService) SendCertificate(ctx context.Context, to, html string) error {
	if _, err := s.mailer.SendCertificate(ctx, to, html); err != nil {
		requestLogger(ctx, s.logger).Error().Err(err).Str("to", to).Msg("failed to send certificate")
		return errs.NewServiceError("Failed to send email", codeEmailDeliveryFailed)
	}
	return nil
}
