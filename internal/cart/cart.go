// Package cart implements the per-session shopping cart: an ordered set
// of menu selections with exact integer-cent totals. A cart belongs to
// exactly one customer session, so operations are synchronous and the
// type carries no locking of its own.
package cart

import "unicode/utf8"

// TaxRatePercent is the VAT rate applied to the subtotal.
const TaxRatePercent = 15

// MaxInstructionsLen caps the free-text special instructions per line.
const MaxInstructionsLen = 500

// Line is one selected menu item with its captured price and quantity.
// UnitPriceCents is fixed at first add; later catalog changes do not
// touch lines already in the cart.
type Line struct {
	ItemID         uint   `json:"item_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	Instructions   string `json:"instructions,omitempty"`
}

// Cart is the ordered collection of lines for one session. Insertion
// order is preserved for display; totals do not depend on it.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Totals holds the derived monetary fields, all in ZAR cents.
type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem merges an item into the cart. If a line with the same item ID
// exists its quantity is incremented by one and the originally captured
// name and price are kept; otherwise a new line is appended with
// quantity one.
func (c *Cart) AddItem(itemID uint, name string, unitPriceCents int64) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ItemID:         itemID,
		Name:           name,
		UnitPriceCents: unitPriceCents,
		Quantity:       1,
	})
}

// RemoveItem deletes the line for itemID. Removing an absent item is a
// no-op, not an error.
func (c *Cart) RemoveItem(itemID uint) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity for itemID exactly. A quantity below
// one removes the line.
func (c *Cart) UpdateQuantity(itemID uint, quantity int) {
	if quantity < 1 {
		c.RemoveItem(itemID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// UpdateInstructions overwrites the special instructions for one line,
// clamped to MaxInstructionsLen bytes on a rune boundary so the stored
// text stays valid UTF-8. Unknown item IDs are ignored.
func (c *Cart) UpdateInstructions(itemID uint, text string) {
	if len(text) > MaxInstructionsLen {
		n := MaxInstructionsLen
		for n > 0 && !utf8.RuneStart(text[n]) {
			n--
		}
		text = text[:n]
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Instructions = text
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Totals recomputes subtotal, tax and total from the current lines on
// every call. Tax is rounded half up to the nearest cent.
func (c *Cart) Totals() Totals {
	var subtotal int64
	for _, line := range c.Lines {
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}
	tax := (subtotal*TaxRatePercent + 50) / 100
	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
	}
}
