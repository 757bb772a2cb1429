package tool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeMSISDN(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"local form", "0244123456", "0244123456"},
		{"international", "233244123456", "0244123456"},
		{"plus prefix", "+233244123456", "0244123456"},
		{"missing leading zero", "244123456", "0244123456"},
		{"spaces and dashes", "024 412-3456", "0244123456"},
		{"too short", "02441234", ""},
		{"too long", "02441234567", ""},
		{"empty", "", ""},
		{"letters only", "not a number", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizeMSISDN(tc.in))
		})
	}
}
