package models

import "encoding/json"

// ScanRequest represents the request body for starting a note from a scanned QR code
type ScanRequest struct {
	URL string `json:"url"`
}

// ItemEdit represents one edit operation against an item's editable fields.
// Value is left raw because its type depends on the field: currency fields
// arrive as integers in centavos, percentages as numbers, units as text and
// toggle fields carry no value at all.
type ItemEdit struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ItemEditResult is returned after applying one edit: the patch with only
// the changed field(s), the full updated item and its recomputed quantities
type ItemEditResult struct {
	Index      int             `json:"index"`
	Patch      ItemPatch       `json:"patch"`
	Item       Item            `json:"item"`
	Quantities Quantities      `json:"quantities"`
	Display    QuantityStrings `json:"display"`
}
