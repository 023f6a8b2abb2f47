package checker

import "strings"

// Normalize trims scraped text and maps empty-after-trim to absent, so
// callers only ever need a nil check to distinguish "present" from
// "missing or blank".
func Normalize(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
