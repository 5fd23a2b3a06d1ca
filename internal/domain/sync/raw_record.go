package sync

import "time"

// ExtractFilter scopes a bulk extraction on the source side
type ExtractFilter struct {
	// ProductStatus limits extraction to products in this source status
	// (e.g. "active"). Empty extracts everything.
	ProductStatus string
}

// ExtractStats summarizes a completed extraction
type ExtractStats struct {
	// Fetched is the number of raw records parsed and staged
	Fetched int
	// Skipped is the number of malformed payload rows dropped
	Skipped int
}

// RawRecord is one staged row per source variant, exactly as received from
// the external platform. Rows are written with an upsert keyed by SourceID so
// repeated extraction is idempotent. The extractor owns these rows; the
// transform engine only reads them.
type RawRecord struct {
	// SourceID is the opaque global identifier of the variant on the source
	SourceID string
	// SourceNumericID is the numeric form decoded from SourceID
	SourceNumericID int64
	// SourceParentID is the global identifier of the parent product
	SourceParentID string
	// Code is the variant SKU string as received
	Code string
	// ParentTitle is the parent product title
	ParentTitle string
	// ParentStatus is the parent product status on the source
	ParentStatus string
	// ParentType is the parent product type on the source
	ParentType string
	// Size is the variant title, which the source uses for the size label
	Size string
	// Price is the variant price string as received
	Price string
	// Quantity is the on-hand inventory quantity
	Quantity int
	// Incoming is the inbound inventory quantity
	Incoming int
	// Committed is the committed inventory quantity
	Committed int
	// ImageURL is the variant image URL
	ImageURL string
	// WeightGrams is the variant weight in grams
	WeightGrams float64
	// Metafields is the bag of named custom metadata fields from the source,
	// values coerced to strings
	Metafields map[string]string
	// ExtractedAt is when this row was staged
	ExtractedAt time.Time
}

// Metafield returns the named metadata value, or empty when absent
func (r *RawRecord) Metafield(key string) string {
	if r.Metafields == nil {
		return ""
	}
	return r.Metafields[key]
}
