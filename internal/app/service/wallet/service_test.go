package wallet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNetCredit(t *testing.T) {
	cases := []struct {
		amount string
		fee    string
		want   string
	}{
		{"15.50", "0.19", "15.31"},
		{"100", "0", "100"},
		{"1.00", "1.00", "0"},
		{"0.50", "0.75", "-0.25"},
	}

	for _, tc := range cases {
		t.Run(tc.amount+"-"+tc.fee, func(t *testing.T) {
			got := NetCredit(decimal.RequireFromString(tc.amount), decimal.RequireFromString(tc.fee))
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestIsDuplicateErr(t *testing.T) {
	require.False(t, isDuplicateErr(nil))
	require.False(t, isDuplicateErr(errors.New("connection reset")))
	require.True(t, isDuplicateErr(gorm.ErrDuplicatedKey))
	require.True(t, isDuplicateErr(fmt.Errorf("insert ledger entry: %w", gorm.ErrDuplicatedKey)))
	require.True(t, isDuplicateErr(errors.New(`ERROR: duplicate key value violates unique constraint "unique_wallet_txn_ref" (SQLSTATE 23505)`)))
}
