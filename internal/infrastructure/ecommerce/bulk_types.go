package ecommerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Operation lifecycle
// ---------------------------------------------------------------------------

// OperationState is the source-side state of a bulk operation
type OperationState string

const (
	// OperationStateCreated means the operation is queued on the source
	OperationStateCreated OperationState = "created"
	// OperationStateRunning means the source is still producing the result
	OperationStateRunning OperationState = "running"
	// OperationStateCompleted means the result file is ready
	OperationStateCompleted OperationState = "completed"
	// OperationStateFailed means the source reported a terminal error
	OperationStateFailed OperationState = "failed"
)

// OperationStatus is one poll response for a bulk operation
type OperationStatus struct {
	// OperationID is the source-assigned operation identifier
	OperationID string `json:"operation_id"`
	// State is the current operation state
	State OperationState `json:"status"`
	// ResultURL is where the result file can be fetched, set on completion
	ResultURL string `json:"result_url,omitempty"`
	// ErrorMessage is the source's failure message, set on failure
	ErrorMessage string `json:"error,omitempty"`
}

// bulkSubmitRequest is the body for submitting a bulk query
type bulkSubmitRequest struct {
	ProductStatus string `json:"product_status,omitempty"`
}

// bulkSubmitResponse is the source's acknowledgement of a submitted query
type bulkSubmitResponse struct {
	OperationID string `json:"operation_id"`
	Error       string `json:"error,omitempty"`
}

// ---------------------------------------------------------------------------
// Result payload
// ---------------------------------------------------------------------------

// bulkVariantRow is one newline-delimited JSON record in the result payload:
// a source variant with its nested parent product, custom metadata fields and
// inventory levels.
type bulkVariantRow struct {
	ID       string  `json:"id"`
	SKU      string  `json:"sku"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image_url"`
	Weight   float64 `json:"weight"`

	Product struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
		Type   string `json:"type"`
	} `json:"product"`

	// Metafields values arrive as strings or numbers; both are coerced to
	// strings during parsing.
	Metafields map[string]json.RawMessage `json:"metafields"`

	InventoryLevels struct {
		Incoming  int `json:"incoming"`
		Committed int `json:"committed"`
	} `json:"inventory_levels"`
}

// DecodeGlobalID extracts the numeric form from an opaque global identifier
// such as "gid://source/ProductVariant/41563921". The opaque form is kept
// alongside the decoded integer.
func DecodeGlobalID(gid string) (int64, error) {
	idx := strings.LastIndex(gid, "/")
	if idx < 0 || idx == len(gid)-1 {
		return 0, fmt.Errorf("ecommerce: malformed global id %q", gid)
	}
	n, err := strconv.ParseInt(gid[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ecommerce: malformed global id %q: %w", gid, err)
	}
	return n, nil
}

// coerceMetafield renders a JSON string or number metafield value as a string
func coerceMetafield(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.TrimSpace(string(raw))
}
