package sync

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wholesale/backend/internal/domain/catalog"
	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// compositeSeparator distinguishes valid composite SKU codes from malformed
// ones; a code without it never entered the catalog's numbering scheme.
const compositeSeparator = "-"

// packPrefixPattern parses the unit multiplier from codes like "3PC-ABC123"
var packPrefixPattern = regexp.MustCompile(`^(\d+)PC-`)

// Rejection reports a raw record filtered out of the catalog. Rejections are
// expected outcomes counted on the run, not pipeline errors.
type Rejection struct {
	// Reason explains why the record was filtered
	Reason string
}

// Error implements the error interface
func (r *Rejection) Error() string {
	return "sync: record rejected: " + r.Reason
}

// IsRejection reports whether err is a transform rejection
func IsRejection(err error) bool {
	var rejection *Rejection
	return errors.As(err, &rejection)
}

// CollectionResolver resolves one raw source collection value to a canonical
// collection. Unresolved values are recorded as signals by the resolver so
// administrators can map them later; resolution itself stays exact.
type CollectionResolver interface {
	Resolve(ctx context.Context, rawValue string) (uuid.UUID, bool)
}

// Transformer converts one staged raw record into zero or one catalog SKU.
// Given a fixed alias table state it is deterministic: re-running the same
// input yields identical output.
type Transformer struct {
	config             StageConfig
	resolver           CollectionResolver
	collectionRepo     catalog.CollectionRepository
	excludedCategories map[string]struct{}
}

// NewTransformer creates a transformer driven by the given stage config
func NewTransformer(
	config StageConfig,
	resolver CollectionResolver,
	collectionRepo catalog.CollectionRepository,
	excludedCategories []string,
) *Transformer {
	excluded := make(map[string]struct{}, len(excludedCategories))
	for _, category := range excludedCategories {
		excluded[strings.ToLower(strings.TrimSpace(category))] = struct{}{}
	}
	return &Transformer{
		config:             config,
		resolver:           resolver,
		collectionRepo:     collectionRepo,
		excludedCategories: excluded,
	}
}

// Transform applies filters and derivations to one raw record. A filtered
// record returns a *Rejection; anything else is a pipeline error.
func (t *Transformer) Transform(ctx context.Context, raw *syncdomain.RawRecord) (*catalog.SKU, error) {
	if !strings.Contains(raw.Code, compositeSeparator) {
		return nil, &Rejection{Reason: fmt.Sprintf("code %q has no composite separator", raw.Code)}
	}

	collectionField := strings.TrimSpace(raw.Metafield(t.config.CollectionSource))
	if collectionField == "" {
		return nil, &Rejection{Reason: "collection field is empty"}
	}

	rawValues := splitCollectionValues(collectionField)
	for _, value := range rawValues {
		if _, excluded := t.excludedCategories[strings.ToLower(value)]; excluded {
			return nil, &Rejection{Reason: fmt.Sprintf("collection %q is excluded", value)}
		}
	}

	sku, err := catalog.NewSKU(raw.Code)
	if err != nil {
		return nil, &Rejection{Reason: err.Error()}
	}

	if err := applyStages(t.config, raw, sku); err != nil {
		return nil, err
	}

	// Every raw value is offered to the resolver so signals are recorded for
	// the whole list, but the first resolved value wins.
	collectionID, resolved := uuid.Nil, false
	for _, value := range rawValues {
		id, ok := t.resolver.Resolve(ctx, value)
		if ok && !resolved {
			collectionID, resolved = id, true
		}
	}
	if !resolved {
		return nil, &Rejection{Reason: fmt.Sprintf("no collection value in %q resolves", collectionField)}
	}

	collection, err := t.collectionRepo.FindByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("sync: loading resolved collection %s: %w", collectionID, err)
	}

	sku.CollectionID = collection.ID
	sku.IsPreOrder = collection.IsPreOrder()
	sku.Size = raw.Size
	sku.Quantity = raw.Quantity
	sku.OnRoute = raw.Incoming - raw.Committed
	sku.ImageURL = raw.ImageURL
	sku.WeightGrams = raw.WeightGrams
	if sku.Description == "" {
		sku.Description = raw.ParentTitle
	}

	if err := sku.SetUnitPricing(parsePackMultiplier(raw.Code)); err != nil {
		return nil, err
	}

	return sku, nil
}

// parsePackMultiplier reads the numeric pack prefix from a code, defaulting
// to a single unit when the prefix is absent.
func parsePackMultiplier(code string) int {
	match := packPrefixPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(code)))
	if match == nil {
		return 1
	}
	units, err := strconv.Atoi(match[1])
	if err != nil || units <= 0 {
		return 1
	}
	return units
}

// splitCollectionValues splits a comma-separated collection field, dropping
// empty entries and preserving order.
func splitCollectionValues(field string) []string {
	parts := strings.Split(field, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
