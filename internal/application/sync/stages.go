package sync

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wholesale/backend/internal/domain/catalog"
	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Stage Configuration
// ---------------------------------------------------------------------------

// StageKind is how a stage value is parsed before landing on the catalog item
type StageKind string

const (
	// StageKindString copies the raw value verbatim
	StageKindString StageKind = "string"
	// StageKindDecimal parses the raw value as a decimal amount
	StageKindDecimal StageKind = "decimal"
)

// Target field names recognized by the stage executor
const (
	TargetDescription    = "description"
	TargetColor          = "color"
	TargetFabric         = "fabric"
	TargetPriceCAD       = "price_cad"
	TargetPriceUSD       = "price_usd"
	TargetRetailPriceCAD = "retail_price_cad"
	TargetRetailPriceUSD = "retail_price_usd"
)

// StageDef maps one source metadata field onto one catalog item field
type StageDef struct {
	// Source is the metadata field key on the raw record
	Source string
	// Target is the catalog item field the value lands on
	Target string
	// Kind is how the raw value is parsed
	Kind StageKind
	// Required rejects the record when the source field is empty
	Required bool
}

// StageConfig is the versioned field-mapping table driving the transform.
// The executor walks this table, so the executable pipeline and the mapping
// documentation are the same artifact and cannot drift.
type StageConfig struct {
	// Version identifies the mapping revision in logs and run records
	Version int
	// CollectionSource is the metadata field carrying the raw collection list
	CollectionSource string
	// Stages are the field mappings applied in order
	Stages []StageDef
}

// DefaultStageConfig is the mapping the sync pipeline ships with. The four
// price fields are required; a record missing any of them is rejected.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		Version:          1,
		CollectionSource: "collection",
		Stages: []StageDef{
			{Source: "description", Target: TargetDescription, Kind: StageKindString},
			{Source: "color", Target: TargetColor, Kind: StageKindString},
			{Source: "fabric", Target: TargetFabric, Kind: StageKindString},
			{Source: "price_cad", Target: TargetPriceCAD, Kind: StageKindDecimal, Required: true},
			{Source: "price_usd", Target: TargetPriceUSD, Kind: StageKindDecimal, Required: true},
			{Source: "retail_price_cad", Target: TargetRetailPriceCAD, Kind: StageKindDecimal, Required: true},
			{Source: "retail_price_usd", Target: TargetRetailPriceUSD, Kind: StageKindDecimal, Required: true},
		},
	}
}

// applyStages walks the mapping table and lands each metadata field on the
// catalog item. A missing required field or an unparseable decimal rejects
// the record.
func applyStages(cfg StageConfig, raw *syncdomain.RawRecord, sku *catalog.SKU) error {
	for _, def := range cfg.Stages {
		value := raw.Metafield(def.Source)
		if value == "" {
			if def.Required {
				return &Rejection{Reason: fmt.Sprintf("missing required field %q", def.Source)}
			}
			continue
		}

		switch def.Kind {
		case StageKindString:
			applyString(sku, def.Target, value)
		case StageKindDecimal:
			amount, err := decimal.NewFromString(value)
			if err != nil {
				return &Rejection{Reason: fmt.Sprintf("field %q is not a valid amount: %q", def.Source, value)}
			}
			applyDecimal(sku, def.Target, amount)
		default:
			return fmt.Errorf("sync: stage config v%d maps %q with unknown kind %q", cfg.Version, def.Source, def.Kind)
		}
	}
	return nil
}

func applyString(sku *catalog.SKU, target, value string) {
	switch target {
	case TargetDescription:
		sku.Description = value
	case TargetColor:
		sku.Color = value
	case TargetFabric:
		sku.Fabric = value
	}
}

func applyDecimal(sku *catalog.SKU, target string, value decimal.Decimal) {
	switch target {
	case TargetPriceCAD:
		sku.PriceCAD = value
	case TargetPriceUSD:
		sku.PriceUSD = value
	case TargetRetailPriceCAD:
		sku.RetailPriceCAD = value
	case TargetRetailPriceUSD:
		sku.RetailPriceUSD = value
	}
}
