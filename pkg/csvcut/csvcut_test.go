package csvcut

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/praetorian-inc/linetools/internal/testutil"
	"github.com/praetorian-inc/linetools/pkg/join"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	row := strings.Split("the quick brown fox jumps over the lazy dog", " ")

	tests := []struct {
		name   string
		fields string
		row    []string
		want   []string
	}{
		{"empty row", "1-", nil, []string{}},
		{"one column", "1", row, []string{"the"}},
		{"closed range", "1-3", row, []string{"the", "quick", "brown"}},
		{"open upper", "7-", row, []string{"the", "lazy", "dog"}},
		{"open lower", "-3", row, []string{"the", "quick", "brown"}},
		{"concat", "-3,5", row, []string{"the", "quick", "brown", "jumps"}},
		{
			name:   "concat overlapped",
			fields: "6-,4-7",
			row:    row,
			want:   []string{"over", "the", "lazy", "dog", "fox", "jumps", "over", "the"},
		},
		{"past the end", "12", row, []string{}},
		{"reversed interval", "3-1", row, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := join.ParseColumns(tt.fields)
			require.NoError(t, err)
			got, err := Select(target, tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  string
	}{
		{
			name:  "cut",
			input: "1,cmd,cronseq\n2,revx\n3,mapdiff,diff,md\n",
			opts:  Options{Fields: "1,3-", Delimiter: ","},
			want:  "1,cronseq\n2\n3,diff,md\n",
		},
		{
			name:  "output delimiter",
			input: "1,cmd,cronseq\n",
			opts:  Options{Fields: "3,1", Delimiter: "\t"},
			want:  "cronseq\t1\n",
		},
		{
			name:  "quoted fields",
			input: "\"x,y\",z\n",
			opts:  Options{Fields: "1", Delimiter: ","},
			want:  "\"x,y\"\n",
		},
		{
			name:  "headers included",
			input: "id,name,alias\n1,a,x\n",
			opts:  Options{Fields: "1,3", Delimiter: ",", HeadersIncluded: true},
			want:  "id,alias\n1,x\n",
		},
		{
			name:  "headers given",
			input: "1,a,x\n",
			opts:  Options{Fields: "2-", Delimiter: ",", Headers: "name,alias"},
			want:  "name,alias\na,x\n",
		},
		{
			name:  "given headers win",
			input: "id,name\n1,a\n",
			opts:  Options{Fields: "1", Delimiter: ",", Headers: "key", HeadersIncluded: true},
			want:  "key\n1\n",
		},
		{
			name:  "json array",
			input: "1,cmd,cronseq\n2,revx\n",
			opts:  Options{Fields: "1,3", JSON: true},
			want:  "[\"1\",\"cronseq\"]\n[\"2\"]\n",
		},
		{
			name:  "json object keeps header order",
			input: "id,name,alias\n1,a,x\n2\n",
			opts:  Options{Fields: "3,1", JSON: true, HeadersIncluded: true},
			want:  "{\"alias\":\"x\",\"id\":\"1\"}\n{\"alias\":\"2\"}\n",
		},
		{
			name:  "json keeps html characters",
			input: "<a&b>\n",
			opts:  Options{Fields: "1", JSON: true, Headers: "v"},
			want:  "{\"v\":\"<a&b>\"}\n",
		},
		{
			name:  "empty input",
			input: "",
			opts:  Options{Fields: "1", Delimiter: ",", HeadersIncluded: true},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = testutil.NewTestLogger(t)
			var buf bytes.Buffer
			require.NoError(t, Run(strings.NewReader(tt.input), &buf, tt.opts))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    Options
		wantErr error
	}{
		{"bad fields", "a\n", Options{Fields: "1.2", Delimiter: ","}, join.ErrSyntax},
		{"no fields", "a\n", Options{Delimiter: ","}, join.ErrSyntax},
		{"empty header given", "a\n", Options{Fields: "1", Delimiter: ",", Headers: "a,,b"}, ErrInvalidHeaders},
		{"empty header read", "id,,x\n", Options{Fields: "1-3", Delimiter: ",", HeadersIncluded: true}, ErrInvalidHeaders},
		{"long delimiter", "a\n", Options{Fields: "1", Delimiter: "::"}, ErrInvalidDelimiter},
		{"bare quote", "a\"b\n", Options{Fields: "1", Delimiter: ","}, csv.ErrBareQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(strings.NewReader(tt.input), &bytes.Buffer{}, tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
