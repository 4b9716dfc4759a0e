package env

import (
	"os"
	"strings"
)

// Get returns the first non-blank value among key and its legacy aliases,
// or fallback when none is set.
func Get(key, fallback string, aliases ...string) string {
	for _, name := range append([]string{key}, aliases...) {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
