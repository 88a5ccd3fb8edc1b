package setgrep

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grepAll(t *testing.T, m *Matcher, input string) []string {
	t.Helper()
	var out []string
	for line, err := range m.Grep(strings.NewReader(input)) {
		require.NoError(t, err)
		out = append(out, line)
	}
	return out
}

func TestMatcher_Grep(t *testing.T) {
	tests := []struct {
		name  string
		seeds []string
		input string
		want  []string
	}{
		{
			name:  "substrings",
			seeds: []string{"fire", "water", "ground"},
			input: "underwater\ntree\nfire\nsky\n",
			want:  []string{"underwater", "fire"},
		},
		{
			name:  "line matching several seeds is printed once",
			seeds: []string{"fire", "water"},
			input: "firewater\n",
			want:  []string{"firewater"},
		},
		{
			name:  "case sensitive",
			seeds: []string{"AKIA"},
			input: "test akia lowercase\ntest AKIA uppercase\n",
			want:  []string{"test AKIA uppercase"},
		},
		{
			name:  "empty seeds are ignored",
			seeds: []string{"", "x"},
			input: "abc\nxyz\n",
			want:  []string{"xyz"},
		},
		{
			name:  "no seeds",
			seeds: nil,
			input: "abc\n",
			want:  nil,
		},
		{
			name:  "last line without newline",
			seeds: []string{"b"},
			input: "a\nb",
			want:  []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grepAll(t, New(tt.seeds), tt.input))
		})
	}
}

func TestMatcher_Matches(t *testing.T) {
	m := New([]string{"AKIA", "ASIA", "ghp_", "AKIA"})
	assert.Equal(t, 3, m.Len())

	assert.Equal(t, []string{"AKIA", "ghp_"}, m.Matches("ghp_x AKIA"))
	assert.Nil(t, m.Matches("nothing here"))
	assert.True(t, m.Match("ASIA"))
	assert.False(t, m.Match(""))
}

func TestReadSeeds(t *testing.T) {
	seeds, err := ReadSeeds(strings.NewReader("fire\r\nwater\n"), strings.NewReader("ground"))
	require.NoError(t, err)
	assert.Equal(t, []string{"fire", "water", "ground"}, seeds)

	_, err = ReadSeeds(iotest.ErrReader(errors.New("boom")))
	assert.ErrorContains(t, err, "boom")
}

func TestMatcher_GrepError(t *testing.T) {
	m := New([]string{"a"})
	var errs int
	for _, err := range m.Grep(iotest.ErrReader(errors.New("boom"))) {
		require.Error(t, err)
		errs++
	}
	assert.Equal(t, 1, errs)
}
