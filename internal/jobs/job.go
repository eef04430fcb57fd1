// Package jobs runs SMS and email delivery on an asynq worker so that
// requests never wait on a gateway.
package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/config"
)

// RedisOpt builds the asynq connection options from configuration
func RedisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client enqueues tasks for the worker. It implements service.TaskEnqueuer.
type Client struct {
	client taskEnqueuer
	closer func() error
}

var _ service.TaskEnqueuer = (*Client)(nil)

// NewClient connects an enqueueing client to Redis
func NewClient(cfg *config.RedisConfig) *Client {
	c := asynq.NewClient(RedisOpt(cfg))
	return &Client{client: c, closer: c.Close}
}

// Close releases the Redis connection
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, err error) error {
	if err != nil {
		return fmt.Errorf("build task: %w", err)
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	zerolog.Ctx(ctx).Debug().Str("task", info.Type).Str("task_id", info.ID).Str("queue", info.Queue).Msg("task enqueued")
	return nil
}

// EnqueueWelcomeSMS queues a welcome message
func (c *Client) EnqueueWelcomeSMS(ctx context.Context, churchID, memberID uuid.UUID) error {
	task, err := NewWelcomeSMSTask(churchID, memberID)
	return c.enqueue(ctx, task, err)
}

// EnqueueReceiptSMS queues a receipt message
func (c *Client) EnqueueReceiptSMS(ctx context.Context, churchID, contributionID uuid.UUID) error {
	task, err := NewReceiptSMSTask(churchID, contributionID)
	return c.enqueue(ctx, task, err)
}

// EnqueueBulkSMS queues a bulk send
func (c *Client) EnqueueBulkSMS(ctx context.Context, churchID uuid.UUID, input *service.BulkSMSInput) error {
	task, err := NewBulkSMSTask(churchID, input)
	return c.enqueue(ctx, task, err)
}

// EnqueueRemittanceEmail queues a remittance notification
func (c *Client) EnqueueRemittanceEmail(ctx context.Context, churchID, remittanceID uuid.UUID) error {
	task, err := NewRemittanceEmailTask(churchID, remittanceID)
	return c.enqueue(ctx, task, err)
}

// Worker processes queued tasks
type Worker struct {
	server   *asynq.Server
	handlers *Handlers
	logger   *zerolog.Logger
}

// NewWorker creates the asynq server. Queue weights favour receipts over
// bulk sends.
func NewWorker(cfg *config.RedisConfig, handlers *Handlers, logger *zerolog.Logger) *Worker {
	server := asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			BaseContext: func() context.Context {
				return logger.WithContext(context.Background())
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				logger.Error().Err(err).Str("task", task.Type()).Int("retry", retried).Msg("task failed")
			}),
		},
	)
	return &Worker{server: server, handlers: handlers, logger: logger}
}

// Mux routes task types to handlers
func (h *Handlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeSMS, h.HandleWelcomeSMS)
	mux.HandleFunc(TaskReceiptSMS, h.HandleReceiptSMS)
	mux.HandleFunc(TaskBulkSMS, h.HandleBulkSMS)
	mux.HandleFunc(TaskRemittanceEmail, h.HandleRemittanceEmail)
	return mux
}

// Start begins processing tasks in the background
func (w *Worker) Start() error {
	w.logger.Info().Msg("Starting background job server")
	return w.server.Start(w.handlers.Mux())
}

// Stop waits for running tasks and shuts the server down
func (w *Worker) Stop() {
	w.logger.Info().Msg("Stopping background job server")
	w.server.Shutdown()
}
