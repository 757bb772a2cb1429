package tool

import "strings"

// NormalizeMSISDN normalizes a Ghanaian phone number to local 0XXXXXXXXX form.
// Returns "" when the input cannot be a valid recipient number.
func NormalizeMSISDN(raw string) string {
	s := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch {
	case strings.HasPrefix(s, "233") && len(s) == 12:
		s = "0" + s[3:]
	case len(s) == 9:
		s = "0" + s
	}

	if len(s) != 10 || s[0] != '0' {
		return ""
	}
	return s
}
