package reversex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverse(t *testing.T) {
	tests := []struct {
		name string
		s    string
		sep  string
		want string
	}{
		{"runes", "live", "", "evil"},
		{"multibyte", "あいう", "", "ういあ"},
		{"empty", "", "", ""},
		{"fields", "java.lang.Object", ".", "Object.lang.java"},
		{"multi char separator", "a::b::c", "::", "c::b::a"},
		{"no separator in input", "abc", ",", "abc"},
		{"empty fields", ",a,", ",", ",a,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reverse(tt.s, tt.sep))
		})
	}
}

func TestReverse_Involution(t *testing.T) {
	for _, s := range []string{"linetools", "a.b.c", "日本語"} {
		assert.Equal(t, s, Reverse(Reverse(s, ""), ""))
		assert.Equal(t, s, Reverse(Reverse(s, "."), "."))
	}
}
