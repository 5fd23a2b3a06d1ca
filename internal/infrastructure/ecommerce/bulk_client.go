package ecommerce

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// maxResponseSize is the maximum allowed control-response size (1MB). Result
// payloads are streamed line by line and are not subject to this limit.
const maxResponseSize = 1 * 1024 * 1024

// maxResultLineSize is the maximum allowed size of one result payload line (1MB)
const maxResultLineSize = 1 * 1024 * 1024

// ErrBulkRequestFailed indicates the source API rejected a control request
var ErrBulkRequestFailed = errors.New("ecommerce: bulk API request failed")

// BulkClient drives the source's asynchronous bulk-extraction protocol:
// submit a query, poll the operation, then stream the newline-delimited JSON
// result payload.
type BulkClient struct {
	config     *BulkConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBulkClient creates a bulk-extraction client for the configured source
func NewBulkClient(config *BulkConfig, logger *zap.Logger) (*BulkClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &BulkClient{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// SubmitBulkQuery submits a catalog bulk query scoped by the filter and
// returns the source-assigned operation ID.
func (c *BulkClient) SubmitBulkQuery(ctx context.Context, filter syncdomain.ExtractFilter) (string, error) {
	body, err := json.Marshal(bulkSubmitRequest{ProductStatus: filter.ProductStatus})
	if err != nil {
		return "", err
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, c.config.Endpoint+"/bulk_operations", body)
	if err != nil {
		return "", err
	}

	var resp bulkSubmitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: malformed submit response: %v", ErrBulkRequestFailed, err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", syncdomain.ErrExtractionFailed, resp.Error)
	}
	if resp.OperationID == "" {
		return "", fmt.Errorf("%w: submit response missing operation id", ErrBulkRequestFailed)
	}

	c.logger.Debug("Bulk query submitted", zap.String("operation_id", resp.OperationID))
	return resp.OperationID, nil
}

// PollOperation fetches the current status of a bulk operation
func (c *BulkClient) PollOperation(ctx context.Context, operationID string) (*OperationStatus, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, c.config.Endpoint+"/bulk_operations/"+operationID, nil)
	if err != nil {
		return nil, err
	}

	var status OperationStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("%w: malformed status response: %v", ErrBulkRequestFailed, err)
	}
	if status.OperationID == "" {
		status.OperationID = operationID
	}
	return &status, nil
}

// StreamResults fetches the result payload and invokes fn once per parsed
// record. Malformed lines are skipped and counted, never fatal. The returned
// count is the number of skipped lines.
func (c *BulkClient) StreamResults(ctx context.Context, resultURL string, fn func(*syncdomain.RawRecord) error) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Both errors stay in the chain so callers can still detect
		// context cancellation behind the transport failure.
		return 0, fmt.Errorf("%w: %w", ErrBulkRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: result fetch returned HTTP %d", ErrBulkRequestFailed, resp.StatusCode)
	}

	skipped := 0
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxResultLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		record, err := parseVariantRow(line)
		if err != nil {
			skipped++
			c.logger.Warn("Skipping malformed result row", zap.Error(err))
			continue
		}

		if err := fn(record); err != nil {
			return skipped, err
		}
	}
	if err := scanner.Err(); err != nil {
		return skipped, fmt.Errorf("%w: reading result payload: %w", ErrBulkRequestFailed, err)
	}

	return skipped, nil
}

// parseVariantRow converts one payload line into a staged raw record
func parseVariantRow(line []byte) (*syncdomain.RawRecord, error) {
	var row bulkVariantRow
	if err := json.Unmarshal(line, &row); err != nil {
		return nil, fmt.Errorf("ecommerce: malformed result row: %w", err)
	}

	numericID, err := DecodeGlobalID(row.ID)
	if err != nil {
		return nil, err
	}

	metafields := make(map[string]string, len(row.Metafields))
	for key, raw := range row.Metafields {
		metafields[key] = coerceMetafield(raw)
	}

	return &syncdomain.RawRecord{
		SourceID:        row.ID,
		SourceNumericID: numericID,
		SourceParentID:  row.Product.ID,
		Code:            row.SKU,
		ParentTitle:     row.Product.Title,
		ParentStatus:    row.Product.Status,
		ParentType:      row.Product.Type,
		Size:            row.Title,
		Price:           row.Price,
		Quantity:        row.Quantity,
		Incoming:        row.InventoryLevels.Incoming,
		Committed:       row.InventoryLevels.Committed,
		ImageURL:        row.ImageURL,
		WeightGrams:     row.Weight,
		Metafields:      metafields,
		ExtractedAt:     time.Now(),
	}, nil
}

// doRequest performs a control request against the bulk API
func (c *BulkClient) doRequest(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBulkRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrBulkRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrBulkRequestFailed, resp.StatusCode, bytes.TrimSpace(respBody))
	}

	return respBody, nil
}
