package service

import (
	"context"
	"encoding/json"
	"fmt"

	"cusoon-api/core/errors"
	"cusoon-api/core/logger"
	"cusoon-api/core/worker"

	"github.com/hibiken/asynq"
)

// HandleOptimizeEventTask processes an event:optimize task enqueued after
// a preference submission. A vanished event is not retried.
func (s *OptimizerService) HandleOptimizeEventTask(ctx context.Context, task *asynq.Task) error {
	var payload worker.OptimizeEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal optimize payload: %w: %w", err, asynq.SkipRetry)
	}

	if _, appErr := s.OptimizeAndSave(ctx, payload.EventID); appErr != nil {
		if appErr.Code == errors.ErrNotFound || appErr.Code == errors.ErrInvalidInput {
			logger.Warn("OptimizerService:HandleOptimizeEventTask:Skip",
				"event_id", payload.EventID, "code", appErr.Code)
			return fmt.Errorf("%s: %w", appErr.Message, asynq.SkipRetry)
		}
		return appErr
	}

	return nil
}
