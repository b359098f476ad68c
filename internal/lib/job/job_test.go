package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []email.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg email.Message) (*email.Receipt, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, msg)
	return &email.Receipt{MessageID: "<1@test>", Accepted: msg.To}, nil
}

func newTestService(mailer Mailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: mailer, logger: &logger}
}

func TestNewSendEmailTask(t *testing.T) {
	msg := email.Message{To: []string{"a@example.com"}, Subject: "Hi", HTML: "<p>x</p>"}

	task, err := NewSendEmailTask(msg)
	require.NoError(t, err)
	assert.Equal(t, TaskSendEmail, task.Type())

	var payload SendEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, msg, payload.Message)
}

func TestHandleSendEmailTaskDelivers(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(mailer)

	task, err := NewSendEmailTask(email.Message{To: []string{"a@example.com"}, Subject: "Hi", HTML: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.handleSendEmailTask(context.Background(), task))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Hi", mailer.sent[0].Subject)
}

func TestHandleSendEmailTaskReportsFailure(t *testing.T) {
	svc := newTestService(&fakeMailer{err: errors.New("relay down")})

	task, err := NewSendEmailTask(email.Message{To: []string{"a@example.com"}})
	require.NoError(t, err)

	assert.Error(t, svc.handleSendEmailTask(context.Background(), task))
}

func TestHandleSendEmailTaskBadPayloadSkipsRetry(t *testing.T) {
	svc := newTestService(&fakeMailer{})

	err := svc.handleSendEmailTask(context.Background(), asynq.NewTask(TaskSendEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
