package worker

import (
	"context"
	"encoding/json"

	"cusoon-api/core/config"
	"cusoon-api/core/constants"
	"cusoon-api/core/logger"

	"github.com/hibiken/asynq"
)

// OptimizeEventPayload is the body of an event:optimize task.
type OptimizeEventPayload struct {
	EventID string `json:"event_id"`
}

// Client enqueues background tasks over redis.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// EnqueueOptimizeEvent schedules a background re-optimization of the
// event's ranked blocks, typically after a preference submission.
func (c *Client) EnqueueOptimizeEvent(ctx context.Context, eventID string) error {
	payload, err := json.Marshal(OptimizeEventPayload{EventID: eventID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(constants.TaskOptimizeEvent, payload)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(constants.OptimizeQueue),
		asynq.MaxRetry(3),
		asynq.Timeout(constants.OptimizeTaskMaxAge),
	)
	if err != nil {
		return err
	}

	logger.Info("Worker:EnqueueOptimizeEvent", "event_id", eventID, "task_id", info.ID)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// NewServer builds the asynq worker that processes optimization tasks.
func NewServer(cfg config.RedisConfig, concurrency int) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				constants.OptimizeQueue: 2,
				"default":               1,
			},
		},
	)
}
