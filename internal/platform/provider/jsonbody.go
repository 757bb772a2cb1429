package provider

import "fmt"

// ExtractJSONObject returns the first balanced {...} span in b. Upstream
// responses sometimes wrap their JSON payload in PHP warnings or other plain
// text, so decoding the body directly is not safe.
func ExtractJSONObject(b []byte) ([]byte, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, c := range b {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return b[start : i+1], nil
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	if start < 0 {
		return nil, fmt.Errorf("no JSON object in response body")
	}
	return nil, fmt.Errorf("unbalanced JSON object in response body")
}
