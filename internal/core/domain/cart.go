package domain

import (
	"fmt"
	"strings"
)

// CartRecord is one persisted line item: a catalog item variant plus how
// many units of it sit in the cart. RecordID is generated by the store on
// insert and never reused; ItemID is the natural key, unique per cart.
type CartRecord struct {
	RecordID int64  `json:"record_id"`
	ItemID   string `json:"item_id"`
	Count    int    `json:"count"`
}

// Validate checks the required-field contract a stored record must satisfy.
func (r CartRecord) Validate() error {
	if strings.TrimSpace(r.ItemID) == "" {
		return fmt.Errorf("%w: empty item id (record %d)", ErrCorruptRecord, r.RecordID)
	}
	if r.Count < 1 {
		return fmt.Errorf("%w: count %d for item %q", ErrCorruptRecord, r.Count, r.ItemID)
	}
	return nil
}

// Cart is a value snapshot of every record at fetch time. It is not a live
// view; mutations after the fetch do not show up in it.
type Cart struct {
	Records []CartRecord `json:"records"`
}

// Lines returns the number of distinct line items.
func (c Cart) Lines() int { return len(c.Records) }

// Units returns the total unit count across all lines.
func (c Cart) Units() int {
	n := 0
	for _, r := range c.Records {
		n += r.Count
	}
	return n
}

// Availability maps an itemID to the number of units currently in stock.
// Supplied by the catalog; the store treats it as an opaque input.
type Availability map[string]int
