package models

// Rounding directions for the final per-unit price
const (
	RoundingDirectionUp   = "up"
	RoundingDirectionDown = "down"
)

// Default pricing parameters applied to every freshly scraped item
const (
	DefaultProfitMargin      = 30.0
	DefaultRoundingSteps     = 5
	DefaultRoundingDirection = RoundingDirectionUp
)

// Item represents one receipt line together with its user-adjustable
// pricing parameters. Price is the total cost for all units, not per-unit.
type Item struct {
	Name  string  `json:"name"`
	Units int     `json:"units"`
	Price float64 `json:"price"`

	ProfitMargin   float64 `json:"profitMargin"`
	ApplyDiscounts bool    `json:"applyDiscounts"`
	Discount       float64 `json:"discount"`
	DiscountPerc   float64 `json:"discountPerc"`

	UseCustomFinalPrice bool    `json:"useCustomFinalPrice"`
	CustomFinalPrice    float64 `json:"customFinalPrice"`

	UseRounding       bool   `json:"useRounding"`
	RoundingSteps     int    `json:"roundingSteps"`
	RoundingDirection string `json:"roundingDirection"`
}

// NewItemFromScrap creates an Item from a scraped receipt line with all
// pricing parameters set to their defaults
func NewItemFromScrap(s ScrapItem) Item {
	return Item{
		Name:              s.Name,
		Units:             s.Units,
		Price:             s.Price,
		ProfitMargin:      DefaultProfitMargin,
		UseRounding:       true,
		RoundingSteps:     DefaultRoundingSteps,
		RoundingDirection: DefaultRoundingDirection,
	}
}

// ItemPatch carries only the field(s) changed by a single edit operation,
// keyed by the item's JSON field names, so the caller can merge it by index
type ItemPatch map[string]interface{}
