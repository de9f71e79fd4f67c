package services

import (
	"context"
	"sync"
	"time"

	"ensemble_backend/internal/config"
	"ensemble_backend/internal/logger"
)

// NotifyItem is one outbound message in a batch.
type NotifyItem struct {
	NotificationID string
	RequestID      string
	MusicianID     string
	Recipient      string
	TemplateType   string
	Variables      map[string]string
}

// SendResult is the settled outcome of one item; Err is nil on success.
type SendResult struct {
	Item NotifyItem
	Err  error
}

type SendFunc func(ctx context.Context, item NotifyItem) error

type ProgressFunc func(done, total int)

// Processing-mode classes, informational only.
const (
	ProcessingModeInstant = "instant"
	ProcessingModeSmall   = "small"
	ProcessingModeMedium  = "medium"
	ProcessingModeLarge   = "large"
)

// NotifyDispatcher batches an arbitrary item list under the provider's fixed
// concurrency ceiling: groups of batchSize concurrent sends with a pause
// between groups. All outcomes are awaited; one failure never aborts the rest.
type NotifyDispatcher struct {
	batchSize int
	delay     time.Duration
}

func NewNotifyDispatcher(cfg config.DispatchConfig) *NotifyDispatcher {
	batchSize := cfg.NotifyBatchSize
	if batchSize <= 0 {
		batchSize = 2
	}
	return &NotifyDispatcher{
		batchSize: batchSize,
		delay:     cfg.NotifyDelay(),
	}
}

// SendBatch sends every item and returns one settled result per item, in
// input order. onProgress may be nil; it is called with the cumulative count
// after each group.
func (d *NotifyDispatcher) SendBatch(ctx context.Context, items []NotifyItem, send SendFunc, onProgress ProgressFunc) []SendResult {
	results := make([]SendResult, len(items))
	total := len(items)

	for start := 0; start < total; start += d.batchSize {
		end := start + d.batchSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = SendResult{
					Item: items[i],
					Err:  send(ctx, items[i]),
				}
			}(i)
		}
		wg.Wait()

		if onProgress != nil {
			onProgress(end, total)
		}

		if end < total {
			select {
			case <-ctx.Done():
				// Mark the remainder as unsent and stop.
				for i := end; i < total; i++ {
					results[i] = SendResult{Item: items[i], Err: ctx.Err()}
				}
				logger.CtxWarn(ctx, "notification batch aborted", "sent", end, "total", total)
				return results
			case <-time.After(d.delay):
			}
		}
	}

	return results
}

// EstimateSeconds approximates batch duration: one second per group.
func (d *NotifyDispatcher) EstimateSeconds(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + d.batchSize - 1) / d.batchSize
}

// ProcessingMode classifies a batch size. Informational only; it does not
// change dispatch behavior.
func (d *NotifyDispatcher) ProcessingMode(n int) string {
	switch {
	case n <= 10:
		return ProcessingModeInstant
	case n <= 30:
		return ProcessingModeSmall
	case n <= 60:
		return ProcessingModeMedium
	default:
		return ProcessingModeLarge
	}
}
