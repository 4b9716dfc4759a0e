package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeOptional trims value and maps blank strings to nil.
func SanitizeOptional(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	clean := SanitizeString(*value, maxLen)
	if clean == "" {
		return nil
	}
	return &clean
}
