package adapter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRows(t *testing.T) {
	type row struct {
		Code   string          `json:"item_code"`
		Qty    int64           `json:"qty"`
		Amount decimal.Decimal `json:"amount"`
	}

	t.Run("decodes typed rows", func(t *testing.T) {
		res := &Result{
			Data: []map[string]interface{}{
				{"item_code": "A001", "qty": int64(3), "amount": 129.50},
				{"item_code": "B002", "qty": int64(1), "amount": "42.75"},
			},
			Rows: 2,
		}

		rows, err := DecodeRows[row](res)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "A001", rows[0].Code)
		assert.Equal(t, int64(3), rows[0].Qty)
		assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("129.5")))
		assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("42.75")))
	})

	t.Run("ignores extra columns", func(t *testing.T) {
		res := &Result{
			Data: []map[string]interface{}{
				{"item_code": "A001", "qty": int64(1), "amount": 1.0, "branch_code": "00"},
			},
			Rows: 1,
		}

		rows, err := DecodeRows[row](res)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "A001", rows[0].Code)
	})

	t.Run("nil and empty results", func(t *testing.T) {
		rows, err := DecodeRows[row](nil)
		require.NoError(t, err)
		assert.Nil(t, rows)

		rows, err = DecodeRows[row](&Result{})
		require.NoError(t, err)
		assert.Nil(t, rows)
	})

	t.Run("type mismatch fails", func(t *testing.T) {
		res := &Result{
			Data: []map[string]interface{}{{"qty": "not-a-number"}},
			Rows: 1,
		}
		_, err := DecodeRows[row](res)
		assert.Error(t, err)
	})
}
