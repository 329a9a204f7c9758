package models

// ScrapItem is one raw line item extracted from the receipt page
type ScrapItem struct {
	Name  string  `json:"name"`
	Units int     `json:"units"`
	Price float64 `json:"price"`
}

// ScrapData is the raw result of scraping one receipt page
type ScrapData struct {
	Items      []ScrapItem `json:"items"`
	Name       string      `json:"name"`
	Date       string      `json:"date"`
	TotalPrice string      `json:"totalPrice"`
}

// Note is one persisted receipt plus its computed pricing for all items.
// URL is the natural key: re-scanning the same receipt replaces the record.
type Note struct {
	Items      []Item `json:"items"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	TotalPrice string `json:"totalPrice"`
	URL        string `json:"url"`
}

// Clone returns a deep copy of the note so callers can hand the note across
// goroutine boundaries without sharing the items slice
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Items = make([]Item, len(n.Items))
	copy(clone.Items, n.Items)
	return &clone
}

// NewNoteFromScrap builds a Note from scraped receipt data, defaulting the
// pricing parameters of every item
func NewNoteFromScrap(data *ScrapData, url string) *Note {
	items := make([]Item, 0, len(data.Items))
	for _, s := range data.Items {
		items = append(items, NewItemFromScrap(s))
	}
	return &Note{
		Items:      items,
		Name:       data.Name,
		Date:       data.Date,
		TotalPrice: data.TotalPrice,
		URL:        url,
	}
}
