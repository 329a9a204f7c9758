package pricing

import (
	"math"
	"testing"

	"github.com/YureAnjos/nfce-pricing-engine/models"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func baseItem() models.Item {
	return models.Item{
		Name:              "ARROZ TIPO 1 5KG",
		Units:             10,
		Price:             100.00,
		ProfitMargin:      30,
		RoundingSteps:     5,
		RoundingDirection: models.RoundingDirectionUp,
	}
}

func TestCompute_MarginOnly(t *testing.T) {
	q := Compute(baseItem())

	if !almostEqual(q.UnitPrice, 10.00) {
		t.Errorf("UnitPrice = %v, want 10.00", q.UnitPrice)
	}
	if !almostEqual(q.PriceDiscounted, 100.00) {
		t.Errorf("PriceDiscounted = %v, want 100.00", q.PriceDiscounted)
	}
	if !almostEqual(q.UnitPriceDiscounted, 10.00) {
		t.Errorf("UnitPriceDiscounted = %v, want 10.00", q.UnitPriceDiscounted)
	}
	if !almostEqual(q.UnitFinalPrice, 13.00) {
		t.Errorf("UnitFinalPrice = %v, want 13.00", q.UnitFinalPrice)
	}
}

func TestCompute_WithDiscountApplied(t *testing.T) {
	item := baseItem()
	item.ApplyDiscounts = true
	item.Discount = 10.00

	q := Compute(item)

	if !almostEqual(q.PriceDiscounted, 90.00) {
		t.Errorf("PriceDiscounted = %v, want 90.00", q.PriceDiscounted)
	}
	if !almostEqual(q.UnitPriceDiscounted, 9.00) {
		t.Errorf("UnitPriceDiscounted = %v, want 9.00", q.UnitPriceDiscounted)
	}
	if !almostEqual(q.UnitFinalPrice, 11.70) {
		t.Errorf("UnitFinalPrice = %v, want 11.70", q.UnitFinalPrice)
	}
}

func TestCompute_DiscountIgnoredWhenNotApplied(t *testing.T) {
	// With applyDiscounts off, the discount value must not leak into the
	// final price regardless of its value.
	for _, discount := range []float64{0, 1, 10, 99.99, 1000} {
		item := baseItem()
		item.ApplyDiscounts = false
		item.Discount = discount

		q := Compute(item)
		want := (item.Price / float64(item.Units)) * (1 + item.ProfitMargin/100)
		if !almostEqual(q.UnitFinalPrice, want) {
			t.Errorf("discount=%v: UnitFinalPrice = %v, want %v", discount, q.UnitFinalPrice, want)
		}
	}
}

func TestCompute_ZeroUnits(t *testing.T) {
	item := baseItem()
	item.Units = 0
	item.UseRounding = true

	q := Compute(item)

	for name, v := range map[string]float64{
		"UnitPrice":             q.UnitPrice,
		"UnitPriceDiscounted":   q.UnitPriceDiscounted,
		"UnitFinalPrice":        q.UnitFinalPrice,
		"UnitFinalPriceRounded": q.UnitFinalPriceRounded,
	} {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			t.Errorf("%s = %v, want non-finite for zero units", name, v)
		}
	}

	s := q.Sanitized()
	if s.UnitPrice != 0 || s.UnitFinalPrice != 0 || s.UnitFinalPriceRounded != 0 {
		t.Errorf("Sanitized() = %+v, want zeros for non-finite values", s)
	}
}

func TestCompute_CustomFinalPriceOverrides(t *testing.T) {
	item := baseItem()
	item.UseCustomFinalPrice = true
	item.CustomFinalPrice = 7.77

	q := Compute(item)

	if !almostEqual(q.UnitFinalPrice, 7.77) {
		t.Errorf("UnitFinalPrice = %v, want the custom price 7.77", q.UnitFinalPrice)
	}

	// Margin edits must have no effect while the override is active
	item.ProfitMargin = 200
	q = Compute(item)
	if !almostEqual(q.UnitFinalPrice, 7.77) {
		t.Errorf("UnitFinalPrice = %v after margin change, want 7.77", q.UnitFinalPrice)
	}
}

func TestCompute_RoundingAppliedToFinalPrice(t *testing.T) {
	item := baseItem()
	item.ProfitMargin = 23.4 // unit final price 12.34
	item.UseRounding = true

	q := Compute(item)
	if !almostEqual(q.UnitFinalPriceRounded, 12.35) {
		t.Errorf("UnitFinalPriceRounded = %v, want 12.35", q.UnitFinalPriceRounded)
	}

	item.UseRounding = false
	q = Compute(item)
	if !almostEqual(q.UnitFinalPriceRounded, q.UnitFinalPrice) {
		t.Errorf("UnitFinalPriceRounded = %v, want UnitFinalPrice %v when rounding is off",
			q.UnitFinalPriceRounded, q.UnitFinalPrice)
	}
}

func TestRoundToStep(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		steps     int
		direction string
		want      float64
	}{
		{"up to next 5 centavos", 1.234, 5, "up", 1.25},
		{"down to previous 5 centavos", 1.234, 5, "down", 1.20},
		{"up to next 10 centavos", 1.234, 10, "up", 1.30},
		{"down to previous 10 centavos", 1.234, 10, "down", 1.20},
		{"already on step stays put going up", 1.25, 5, "up", 1.25},
		{"already on step stays put going down", 1.25, 5, "down", 1.25},
		{"zero", 0, 5, "up", 0},
		{"unknown direction falls back to nearest, below midpoint", 1.22, 5, "sideways", 1.20},
		{"unknown direction falls back to nearest, above midpoint", 1.23, 5, "sideways", 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundToStep(tt.value, tt.steps, tt.direction)
			if !almostEqual(got, tt.want) {
				t.Errorf("RoundToStep(%v, %d, %q) = %v, want %v", tt.value, tt.steps, tt.direction, got, tt.want)
			}
		})
	}
}

func TestRoundToStep_NonFinitePassesThrough(t *testing.T) {
	if v := RoundToStep(math.NaN(), 5, "up"); !math.IsNaN(v) {
		t.Errorf("RoundToStep(NaN) = %v, want NaN", v)
	}
	if v := RoundToStep(math.Inf(1), 5, "down"); !math.IsInf(v, 1) {
		t.Errorf("RoundToStep(+Inf) = %v, want +Inf", v)
	}
}
