package ecommerce

import (
	"errors"
	"time"
)

// Bulk extraction configuration errors
var (
	ErrBulkMissingEndpoint = errors.New("ecommerce: bulk endpoint is required")
	ErrBulkMissingToken    = errors.New("ecommerce: access token is required")
	ErrBulkInvalidTimings  = errors.New("ecommerce: poll interval and max wait must be positive")
)

// BulkConfig holds configuration for the bulk-extraction client
type BulkConfig struct {
	// Endpoint is the base URL of the source bulk API
	Endpoint string
	// AccessToken authenticates requests against the source API
	AccessToken string
	// TimeoutSeconds is the per-request HTTP timeout
	TimeoutSeconds int
	// PollInterval is the delay between operation status checks
	PollInterval time.Duration
	// MaxWait is the total wait budget for one bulk operation. Exceeding it
	// aborts the run as a timeout, not a failure.
	MaxWait time.Duration
}

// Validate checks the configuration for completeness
func (c *BulkConfig) Validate() error {
	if c.Endpoint == "" {
		return ErrBulkMissingEndpoint
	}
	if c.AccessToken == "" {
		return ErrBulkMissingToken
	}
	if c.PollInterval <= 0 || c.MaxWait <= 0 {
		return ErrBulkInvalidTimings
	}
	return nil
}
