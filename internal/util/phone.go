package util

import (
	"regexp"
	"strings"
)

var numberSeparators = regexp.MustCompile(`[\s\-\.\(\)/]+`)

// NormalizeNumber drops the separators people type into phone numbers
// ("+1 (555) 010-9999" => "+15550109999"). Digits, '+' and anything unexpected
// are kept so the API still sees and rejects bad input.
func NormalizeNumber(raw string) string {
	return numberSeparators.ReplaceAllString(strings.TrimSpace(raw), "")
}
