// Package reversex reverses strings by character or by field.
package reversex

import (
	"slices"
	"strings"
)

// Reverse reverses s. With an empty sep the runes are reversed, otherwise
// the fields separated by sep.
func Reverse(s, sep string) string {
	if sep == "" {
		r := []rune(s)
		slices.Reverse(r)
		return string(r)
	}
	fields := strings.Split(s, sep)
	slices.Reverse(fields)
	return strings.Join(fields, sep)
}
