package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// The remote API exchanges money fields as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// PriceKind selects which price field a reprice targets.
type PriceKind string

const (
	// PriceKindPerLiter updates the per-liter sale price.
	PriceKindPerLiter PriceKind = "perLiter"
	// PriceKindPerContainer updates the per-fuusto (container) sale price.
	PriceKindPerContainer PriceKind = "perContainer"
)

// Wire field names accepted by the reprice endpoint.
const (
	priceFieldPerLiter     = "price_per_liter"
	priceFieldPerContainer = "price_per_fuusto"
)

// PriceUpdate is the narrow producer-side type for a reprice intent. It is
// serialized to the exact request body stored on the outbox row, so an
// ill-formed update cannot be enqueued in the first place.
type PriceUpdate struct {
	Kind  PriceKind
	Value decimal.Decimal
}

// Validate checks that the update names a known price field and a positive
// value.
func (p PriceUpdate) Validate() error {
	switch p.Kind {
	case PriceKindPerLiter, PriceKindPerContainer:
	default:
		return fmt.Errorf("unknown price kind %q", p.Kind)
	}
	if p.Value.Sign() <= 0 {
		return fmt.Errorf("price must be positive, got %s", p.Value)
	}
	return nil
}

// MarshalBody returns the canonical JSON request body for the reprice
// endpoint, e.g. {"price_per_liter": 1.25}.
func (p PriceUpdate) MarshalBody() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	field := priceFieldPerLiter
	if p.Kind == PriceKindPerContainer {
		field = priceFieldPerContainer
	}
	return json.Marshal(map[string]decimal.Decimal{field: p.Value})
}

// DecodePriceBody parses a stored outbox payload back into its field map.
// It is the drain-side validity check for locally persisted payloads.
func DecodePriceBody(payload string) (map[string]decimal.Decimal, error) {
	var body map[string]decimal.Decimal
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty price payload")
	}
	return body, nil
}
