package pricing

import (
	"math"
	"strconv"

	"github.com/YureAnjos/nfce-pricing-engine/models"
	"github.com/YureAnjos/nfce-pricing-engine/utils"
)

// lastChangedField tags which side of the discount pair was edited last, so
// the sync rule recomputes only the derived sibling and never feeds back
type lastChangedField int

const (
	lastChangedNone lastChangedField = iota
	lastChangedDiscount
	lastChangedDiscountPerc
)

// Session owns the editable state of one receipt item. Each Set/Toggle
// operation applies a single edit, re-runs the discount sync rule where
// relevant and returns a patch with only the field(s) that changed, which
// the owner merges into its copy of the note by index.
//
// Operations that would present dead controls as live are ignored while the
// custom final price is active; those return an empty patch.
type Session struct {
	item        models.Item
	unitsText   string
	lastChanged lastChangedField
}

// NewSession creates a Session over a copy of the given item
func NewSession(item models.Item) *Session {
	return &Session{
		item:      item,
		unitsText: strconv.Itoa(item.Units),
	}
}

// Item returns the current item state
func (s *Session) Item() models.Item {
	return s.item
}

// UnitsText returns the raw units input text as last typed
func (s *Session) UnitsText() string {
	return s.unitsText
}

// Quantities computes the derived monetary values for the current state
func (s *Session) Quantities() models.Quantities {
	return Compute(s.item)
}

// SetUnits parses the units text permissively, flooring to an integer.
// The raw text is kept so the input field round-trips what the user typed.
func (s *Session) SetUnits(text string) models.ItemPatch {
	s.unitsText = text
	s.item.Units = int(math.Floor(utils.ToNumber(text)))
	return models.ItemPatch{"units": s.item.Units}
}

// SetPrice stores a total cost arriving in centavos from a currency field
func (s *Session) SetPrice(cents int64) models.ItemPatch {
	s.item.Price = float64(cents) / 100
	patch := models.ItemPatch{"price": s.item.Price}
	s.syncDiscounts(patch)
	return patch
}

// SetProfitMargin stores the margin percentage directly, no side effects
func (s *Session) SetProfitMargin(percent float64) models.ItemPatch {
	s.item.ProfitMargin = percent
	return models.ItemPatch{"profitMargin": percent}
}

// SetDiscount stores an absolute discount arriving in centavos and marks the
// absolute amount as the authoritative side of the discount pair
func (s *Session) SetDiscount(cents int64) models.ItemPatch {
	s.item.Discount = float64(cents) / 100
	s.lastChanged = lastChangedDiscount
	patch := models.ItemPatch{"discount": s.item.Discount}
	s.syncDiscounts(patch)
	return patch
}

// SetDiscountPercent stores a discount percentage and marks the percentage
// as the authoritative side of the discount pair
func (s *Session) SetDiscountPercent(percent float64) models.ItemPatch {
	s.item.DiscountPerc = percent
	s.lastChanged = lastChangedDiscountPerc
	patch := models.ItemPatch{"discountPerc": percent}
	s.syncDiscounts(patch)
	return patch
}

// ToggleApplyDiscounts flips whether the discount is subtracted before the
// margin is applied. Ignored while the custom final price is active.
func (s *Session) ToggleApplyDiscounts() models.ItemPatch {
	if s.item.UseCustomFinalPrice {
		return models.ItemPatch{}
	}
	s.item.ApplyDiscounts = !s.item.ApplyDiscounts
	return models.ItemPatch{"applyDiscounts": s.item.ApplyDiscounts}
}

// SetCustomFinalPrice stores a manual per-unit price arriving in centavos
func (s *Session) SetCustomFinalPrice(cents int64) models.ItemPatch {
	s.item.CustomFinalPrice = float64(cents) / 100
	return models.ItemPatch{"customFinalPrice": s.item.CustomFinalPrice}
}

// ToggleUseCustomFinalPrice flips the manual override. On the transition to
// active it seeds the custom price with the current computed per-unit price,
// rounded when rounding is on, so the field opens showing the value the user
// is overriding.
func (s *Session) ToggleUseCustomFinalPrice() models.ItemPatch {
	patch := models.ItemPatch{}
	if !s.item.UseCustomFinalPrice {
		q := Compute(s.item)
		seed := q.UnitFinalPrice
		if s.item.UseRounding {
			seed = q.UnitFinalPriceRounded
		}
		if math.IsNaN(seed) || math.IsInf(seed, 0) {
			seed = 0
		}
		s.item.CustomFinalPrice = seed
		patch["customFinalPrice"] = seed
	}
	s.item.UseCustomFinalPrice = !s.item.UseCustomFinalPrice
	patch["useCustomFinalPrice"] = s.item.UseCustomFinalPrice
	return patch
}

// ToggleUseRounding flips whether the final price is snapped to a cash step.
// Ignored while the custom final price is active.
func (s *Session) ToggleUseRounding() models.ItemPatch {
	if s.item.UseCustomFinalPrice {
		return models.ItemPatch{}
	}
	s.item.UseRounding = !s.item.UseRounding
	return models.ItemPatch{"useRounding": s.item.UseRounding}
}

// SetRoundingSteps selects the rounding granularity in centavos. Only 5 and
// 10 exist in the UI; anything else is ignored, as are edits while the
// custom final price is active.
func (s *Session) SetRoundingSteps(steps int) models.ItemPatch {
	if s.item.UseCustomFinalPrice {
		return models.ItemPatch{}
	}
	if steps != 5 && steps != 10 {
		return models.ItemPatch{}
	}
	s.item.RoundingSteps = steps
	return models.ItemPatch{"roundingSteps": steps}
}

// SetRoundingDirection selects the rounding direction ("up" or "down").
// Ignored while the custom final price is active.
func (s *Session) SetRoundingDirection(direction string) models.ItemPatch {
	if s.item.UseCustomFinalPrice {
		return models.ItemPatch{}
	}
	if direction != models.RoundingDirectionUp && direction != models.RoundingDirectionDown {
		return models.ItemPatch{}
	}
	s.item.RoundingDirection = direction
	return models.ItemPatch{"roundingDirection": direction}
}

// syncDiscounts recomputes the derived side of the discount pair after any
// change to price, discount, discountPerc or the authority tag. Only one
// direction ever fires per change; the tag is what prevents the two derived
// fields from feeding each other in a loop.
func (s *Session) syncDiscounts(patch models.ItemPatch) {
	switch s.lastChanged {
	case lastChangedDiscount:
		if s.item.Price <= 0 || s.item.Discount <= 0 {
			s.item.DiscountPerc = 0
		} else {
			s.item.DiscountPerc = s.item.Discount / s.item.Price * 100
		}
		patch["discountPerc"] = s.item.DiscountPerc
	case lastChangedDiscountPerc:
		if s.item.Price <= 0 || s.item.DiscountPerc <= 0 {
			s.item.Discount = 0
		} else {
			s.item.Discount = s.item.Price * s.item.DiscountPerc / 100
		}
		patch["discount"] = s.item.Discount
	}
}
