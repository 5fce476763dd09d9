package kafkain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Brolenso/fashionstore/internal/core/domain"
)

// StockSnapshot is the authoritative availability message the catalog
// publishes. Missing itemIDs mean zero stock.
type StockSnapshot struct {
	SnapshotID   string              `json:"snapshot_id"`
	Availability domain.Availability `json:"availability"`
}

func DecodeSnapshot(b []byte) (StockSnapshot, error) {
	var s StockSnapshot

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&s); err != nil {
		return StockSnapshot{}, fmt.Errorf("json decode: %w", err)
	}

	if s.Availability == nil {
		return StockSnapshot{}, errors.New("snapshot without availability map")
	}
	for itemID, n := range s.Availability {
		if itemID == "" {
			return StockSnapshot{}, errors.New("snapshot with empty item id")
		}
		if n < 0 {
			return StockSnapshot{}, fmt.Errorf("negative availability %d for item %q", n, itemID)
		}
	}

	return s, nil
}
