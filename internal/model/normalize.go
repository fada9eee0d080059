package model

import "strings"

// Normalize lowercases text and collapses runs of whitespace to single
// spaces. Stored alongside raw text for dedup and lookup by title.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
