package mapdiff

import (
	"io"
	"strings"
	"testing"

	"github.com/praetorian-inc/linetools/internal/testutil"
	"github.com/praetorian-inc/linetools/pkg/join"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diffLines(t *testing.T, left, right string, opts Options) []string {
	t.Helper()
	var out []string
	for d, err := range Run(strings.NewReader(left), strings.NewReader(right), opts) {
		require.NoError(t, err)
		out = append(out, d.Lines()...)
	}
	return out
}

func TestRun(t *testing.T) {
	left := "k1 apple\nk2 banana\nk3 citrus\nk4 dragon fruit\n"
	right := "k2 banana\nk1 aoi\nk5 citrus\n"

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "diff only",
			opts: Options{Delimiter: " "},
			want: []string{
				"<>< k1 apple",
				"<>> k1 aoi",
				"< k3 citrus",
				"< k4 dragon fruit",
				"> k5 citrus",
			},
		},
		{
			name: "with no diff",
			opts: Options{Delimiter: " ", WithNoDiff: true},
			want: []string{
				"<>< k1 apple",
				"<>> k1 aoi",
				"k2 banana",
				"< k3 citrus",
				"< k4 dragon fruit",
				"> k5 citrus",
			},
		},
		{
			name: "second column as key",
			opts: Options{Key: 1, Delimiter: " "},
			want: []string{
				"< k1 apple",
				"<>< k3 citrus",
				"<>> k5 citrus",
				"< k4 dragon fruit",
				"> k1 aoi",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = testutil.NewTestLogger(t)
			assert.Equal(t, tt.want, diffLines(t, left, right, tt.opts))
		})
	}
}

func TestRun_Kinds(t *testing.T) {
	var kinds []Kind
	for d, err := range Run(strings.NewReader("a,1\nb,2\n"), strings.NewReader("b,3\nc,4\n"), Options{Delimiter: ","}) {
		require.NoError(t, err)
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []Kind{LeftOnly, Changed, RightOnly}, kinds)
	assert.Equal(t, "changed", Changed.String())
}

func TestRun_TrailingWhitespace(t *testing.T) {
	left := "k1 apple  \nk2 banana\t\n"
	right := "k1 apple\r\nk2 banana \nk3 \n"

	got := diffLines(t, left, right, Options{Delimiter: " ", WithNoDiff: true})
	assert.Equal(t, []string{"k1 apple", "k2 banana", "> k3"}, got)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		left    io.Reader
		right   io.Reader
		opts    Options
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty delimiter",
			left:    strings.NewReader(""),
			right:   strings.NewReader(""),
			opts:    Options{},
			wantErr: ErrInvalidDelimiter,
		},
		{
			name:    "long delimiter",
			left:    strings.NewReader(""),
			right:   strings.NewReader(""),
			opts:    Options{Delimiter: "::"},
			wantErr: ErrInvalidDelimiter,
		},
		{
			name:    "no key",
			left:    strings.NewReader("a,1\nb\n"),
			right:   strings.NewReader(""),
			opts:    Options{Key: 1, Delimiter: ","},
			wantErr: ErrNoKey,
			wantMsg: "left at line 2",
		},
		{
			name:    "duplicated key",
			left:    strings.NewReader("a,1\n"),
			right:   strings.NewReader("b,1\nb,2\nc,3\n"),
			opts:    Options{Delimiter: ","},
			wantErr: ErrDuplicatedKey,
			wantMsg: "right at line 2",
		},
		{
			name:    "not seekable",
			left:    struct{ io.Reader }{strings.NewReader("a\n")},
			right:   strings.NewReader(""),
			opts:    Options{Delimiter: ","},
			wantErr: join.ErrNotSeekable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got error
			for _, err := range Run(tt.left, tt.right, tt.opts) {
				if err != nil {
					got = err
					break
				}
			}
			require.ErrorIs(t, got, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, got.Error(), tt.wantMsg)
			}
		})
	}
}
