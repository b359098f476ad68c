package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

func (j *JobService) handleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var p SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal send email payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskSendEmail).
		Strs("to", p.Message.To).
		Msg("Processing queued email task")

	receipt, err := j.mailer.Send(ctx, p.Message)
	if err != nil {
		j.logger.Error().
			Str("type", TaskSendEmail).
			Strs("to", p.Message.To).
			Err(err).
			Msg("Failed to send queued email")
		return err
	}

	j.logger.Info().
		Str("type", TaskSendEmail).
		Str("message_id", receipt.MessageID).
		Msg("Successfully sent queued email")

	return nil
}
