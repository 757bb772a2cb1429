package provider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"clean object", `{"status":"ok"}`, `{"status":"ok"}`},
		{
			"leading php warning",
			`<br /><b>Warning</b>: Undefined variable in /var/www/api.php on line 12{"status":"ok","order_id":"123"}`,
			`{"status":"ok","order_id":"123"}`,
		},
		{
			"trailing noise",
			`{"status":"ok"}<!-- generated in 0.2s -->`,
			`{"status":"ok"}`,
		},
		{
			"nested object",
			`noise {"data":{"order":{"id":"a"}},"ok":true} more noise`,
			`{"data":{"order":{"id":"a"}},"ok":true}`,
		},
		{
			"braces inside strings",
			`{"message":"use {ref} to track","note":"\"quoted\" }"}`,
			`{"message":"use {ref} to track","note":"\"quoted\" }"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject([]byte(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.want, string(got))
		})
	}
}

func TestExtractJSONObject_Errors(t *testing.T) {
	_, err := ExtractJSONObject([]byte("plain text, no payload"))
	require.Error(t, err)

	_, err = ExtractJSONObject([]byte(`{"status":"ok"`))
	require.Error(t, err)
}
