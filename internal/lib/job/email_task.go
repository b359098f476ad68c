package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/hibiken/asynq"
)

const (
	// TaskSendEmail delivers a caller-supplied HTML email.
	TaskSendEmail = "email:send"
)

// SendEmailPayload is the task body stored in Redis.
type SendEmailPayload struct {
	Message email.Message `json:"message"`
}

// NewSendEmailTask builds a queued email task. Failed deliveries are not
// retried; the failure is logged and the task is archived.
func NewSendEmailTask(msg email.Message) (*asynq.Task, error) {
	payload, err := json.Marshal(SendEmailPayload{Message: msg})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSendEmail,
		payload,
		asynq.MaxRetry(0),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
