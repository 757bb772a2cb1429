package profit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAvailableFor(t *testing.T) {
	cases := []struct {
		name      string
		credited  string
		withdrawn string
		want      string
	}{
		{"no withdrawals", "120.50", "0", "120.5"},
		{"partial withdrawal", "100", "40.25", "59.75"},
		{"fully withdrawn", "80", "80", "0"},
		// withdrawals can exceed credited when records were corrected
		// after approval; the balance clamps at zero instead of going
		// negative.
		{"over-withdrawn clamps to zero", "50", "75", "0"},
		{"empty ledger", "0", "0", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AvailableFor(
				decimal.RequireFromString(tc.credited),
				decimal.RequireFromString(tc.withdrawn),
			)
			require.Equal(t, tc.want, got.String())
		})
	}
}
