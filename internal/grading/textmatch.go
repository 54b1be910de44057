package grading

import "strings"

// fold trims leading/trailing whitespace and casefolds, so " H2O " and
// "h2o" compare equal. Interior whitespace is preserved.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
