package models

import "math"

// Quantities is the complete set of derived monetary values for one item.
// Every displayed number traces back to exactly one of these five outputs.
// With units = 0 the per-unit values are non-finite; callers must treat
// those as "not yet computable" and never persist them as rounded currency.
type Quantities struct {
	UnitPrice             float64 `json:"unitPrice"`
	PriceDiscounted       float64 `json:"priceDiscounted"`
	UnitPriceDiscounted   float64 `json:"unitPriceDiscounted"`
	UnitFinalPrice        float64 `json:"unitFinalPrice"`
	UnitFinalPriceRounded float64 `json:"unitFinalPriceRounded"`
}

// Sanitized returns a copy with non-finite values replaced by zero, safe for
// JSON encoding and for display
func (q Quantities) Sanitized() Quantities {
	return Quantities{
		UnitPrice:             finiteOrZero(q.UnitPrice),
		PriceDiscounted:       finiteOrZero(q.PriceDiscounted),
		UnitPriceDiscounted:   finiteOrZero(q.UnitPriceDiscounted),
		UnitFinalPrice:        finiteOrZero(q.UnitFinalPrice),
		UnitFinalPriceRounded: finiteOrZero(q.UnitFinalPriceRounded),
	}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// QuantityStrings mirrors Quantities formatted as pt-BR currency strings
type QuantityStrings struct {
	UnitPrice             string `json:"unitPrice"`
	PriceDiscounted       string `json:"priceDiscounted"`
	UnitPriceDiscounted   string `json:"unitPriceDiscounted"`
	UnitFinalPrice        string `json:"unitFinalPrice"`
	UnitFinalPriceRounded string `json:"unitFinalPriceRounded"`
}
