package pricing

import (
	"math"

	"github.com/YureAnjos/nfce-pricing-engine/models"
)

// Compute derives every displayed/stored monetary quantity from the item's
// current field values. Pure and total: degenerate input (units = 0) yields
// non-finite values instead of an error, and callers must guard display and
// storage of those.
func Compute(item models.Item) models.Quantities {
	units := float64(item.Units)

	unitPrice := item.Price / units

	priceDiscounted := item.Price
	if item.ApplyDiscounts {
		priceDiscounted -= item.Discount
	}
	unitPriceDiscounted := priceDiscounted / units

	unitFinalPrice := unitPriceDiscounted * (1 + item.ProfitMargin/100)
	if item.UseCustomFinalPrice {
		unitFinalPrice = item.CustomFinalPrice
	}

	unitFinalPriceRounded := unitFinalPrice
	if item.UseRounding {
		unitFinalPriceRounded = RoundToStep(unitFinalPrice, item.RoundingSteps, item.RoundingDirection)
	}

	return models.Quantities{
		UnitPrice:             unitPrice,
		PriceDiscounted:       priceDiscounted,
		UnitPriceDiscounted:   unitPriceDiscounted,
		UnitFinalPrice:        unitFinalPrice,
		UnitFinalPriceRounded: unitFinalPriceRounded,
	}
}

// RoundToStep snaps a currency value to a cash-friendly step of centavos.
// "up" rounds the cents up to the next step, "down" truncates to the
// previous one. Any other direction falls back to nearest-rounding so the
// function stays total; the two valid directions are exhaustive in practice.
func RoundToStep(value float64, steps int, direction string) float64 {
	cents := value * 100
	step := float64(steps)

	switch direction {
	case models.RoundingDirectionUp:
		return math.Ceil(cents/step) * step / 100
	case models.RoundingDirectionDown:
		return math.Floor(cents/step) * step / 100
	default:
		return math.Round(cents/step) * step / 100
	}
}
