package models

import "strings"

// NormalizeKey is the identity used for ingredient names, dish names and
// table display names. Two names that normalise to the same key are the
// same entity.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameKey reports whether a and b name the same entity.
func SameKey(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}
