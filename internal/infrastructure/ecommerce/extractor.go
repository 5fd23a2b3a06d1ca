package ecommerce

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// Extractor runs the full bulk-extraction flow: submit, poll until the
// operation settles or the wait budget runs out, then stream results.
type Extractor struct {
	client       *BulkClient
	pollInterval time.Duration
	maxWait      time.Duration
	logger       *zap.Logger
}

// NewExtractor creates an extractor bound to the client's poll timings
func NewExtractor(client *BulkClient, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		client:       client,
		pollInterval: client.config.PollInterval,
		maxWait:      client.config.MaxWait,
		logger:       logger,
	}
}

// Extract submits a bulk query for the filtered catalog and invokes fn once
// per extracted record. A source-side failure surfaces as ErrExtractionFailed
// with the source's message; exhausting the wait budget surfaces as
// ErrExtractionTimeout. Both are distinct and neither is retried here.
func (e *Extractor) Extract(ctx context.Context, filter syncdomain.ExtractFilter, fn func(*syncdomain.RawRecord) error) (*syncdomain.ExtractStats, error) {
	operationID, err := e.client.SubmitBulkQuery(ctx, filter)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Bulk extraction started",
		zap.String("operation_id", operationID),
		zap.String("product_status", filter.ProductStatus))

	resultURL, err := e.awaitCompletion(ctx, operationID)
	if err != nil {
		return nil, err
	}

	stats := &syncdomain.ExtractStats{}
	skipped, err := e.client.StreamResults(ctx, resultURL, func(record *syncdomain.RawRecord) error {
		stats.Fetched++
		return fn(record)
	})
	stats.Skipped = skipped
	if err != nil {
		return stats, err
	}

	e.logger.Info("Bulk extraction finished",
		zap.String("operation_id", operationID),
		zap.Int("fetched", stats.Fetched),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

// awaitCompletion polls the operation until it completes, fails, or the wait
// budget is exhausted. The deadline is checked before each poll so a slow
// operation cannot stretch the budget by one extra interval.
func (e *Extractor) awaitCompletion(ctx context.Context, operationID string) (string, error) {
	deadline := time.Now().Add(e.maxWait)
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w: operation %s still running after %s",
				syncdomain.ErrExtractionTimeout, operationID, e.maxWait)
		}

		status, err := e.client.PollOperation(ctx, operationID)
		if err != nil {
			return "", err
		}

		switch status.State {
		case OperationStateCompleted:
			if status.ResultURL == "" {
				return "", fmt.Errorf("%w: operation %s completed without a result URL",
					ErrBulkRequestFailed, operationID)
			}
			return status.ResultURL, nil
		case OperationStateFailed:
			return "", fmt.Errorf("%w: %s", syncdomain.ErrExtractionFailed, status.ErrorMessage)
		case OperationStateCreated, OperationStateRunning:
			e.logger.Debug("Bulk operation still running",
				zap.String("operation_id", operationID),
				zap.String("state", string(status.State)))
		default:
			return "", fmt.Errorf("%w: operation %s reported unknown state %q",
				ErrBulkRequestFailed, operationID, status.State)
		}
	}
}
