// Package job provides background email delivery using Asynq.
//
// Asynq is a Redis-backed queue: handlers enqueue tasks through
// asynq.Client and the worker server started here consumes them.
package job

import (
	"context"
	"fmt"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Mailer delivers one message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) (*email.Receipt, error)
}

// JobService holds the Asynq client (enqueue) and server (workers).
type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	mailer Mailer
	logger *zerolog.Logger
}

// NewJobService connects both sides of the queue to the configured Redis.
func NewJobService(logger *zerolog.Logger, cfg *config.Config, mailer Mailer) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client: client,
		server: server,
		mailer: mailer,
		logger: logger,
	}
}

// EnqueueEmail queues msg for background delivery and returns the task id.
func (j *JobService) EnqueueEmail(ctx context.Context, msg email.Message) (string, error) {
	task, err := NewSendEmailTask(msg)
	if err != nil {
		return "", fmt.Errorf("failed to build email task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue email task: %w", err)
	}

	j.logger.Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("email task enqueued")

	return info.ID, nil
}

// Start registers task handlers and starts the workers. It does not block;
// the asynq server runs its own goroutines until Stop.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendEmail, j.handleSendEmailTask)

	j.logger.Info().Msg("Starting background job server")

	return j.server.Start(mux)
}

// Stop shuts the workers down and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
