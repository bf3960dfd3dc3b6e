package utils

import "strings"

// ExtractJSONBlock strips a surrounding markdown code fence from a model
// response, returning the inner payload. Plain responses pass through
// untouched; anything that still fails to unmarshal is handled by the caller.
func ExtractJSONBlock(raw string) string {
	s := strings.TrimSpace(raw)

	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
