package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCartRecordValidate(t *testing.T) {
	require.NoError(t, CartRecord{RecordID: 1, ItemID: "sku-1", Count: 1}.Validate())

	err := CartRecord{RecordID: 2, ItemID: "", Count: 1}.Validate()
	require.ErrorIs(t, err, ErrCorruptRecord)

	err = CartRecord{RecordID: 3, ItemID: "   ", Count: 1}.Validate()
	require.ErrorIs(t, err, ErrCorruptRecord)

	err = CartRecord{RecordID: 4, ItemID: "sku-1", Count: 0}.Validate()
	require.ErrorIs(t, err, ErrCorruptRecord)

	err = CartRecord{RecordID: 5, ItemID: "sku-1", Count: -3}.Validate()
	require.ErrorIs(t, err, ErrCorruptRecord)
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Records: []CartRecord{
		{RecordID: 1, ItemID: "a", Count: 2},
		{RecordID: 2, ItemID: "b", Count: 5},
	}}
	require.Equal(t, 2, cart.Lines())
	require.Equal(t, 7, cart.Units())

	require.Equal(t, 0, Cart{}.Lines())
	require.Equal(t, 0, Cart{}.Units())
}
