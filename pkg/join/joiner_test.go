package join

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	joinerSource1 = []string{"11,12", "21,22", "31,32", "41,42", "11,52"}
	joinerSource2 = []string{"13,14", "11,24", "21,34", "43,44", "53,54"}
	joinerSource3 = []string{"15,16,17", "25,26,27", "11,36,37", "11,46,47", "55,56,57"}
	joinerSource4 = []string{"18,19", "11,29", "38,39", "48,49", "58,59"}
)

func TestJoiner_Join(t *testing.T) {
	tests := []struct {
		name    string
		sources [][]string
		joinKey string
		target  string
		want    []string
	}{
		{
			name:    "1 join",
			sources: [][]string{{"a,b,c", "p,x,y"}, {"d,e,f", "p,z,t"}},
			joinKey: "1.1=2.1",
			target:  "1.2",
			want:    []string{"x"},
		},
		{
			name:    "duplicated relation",
			sources: [][]string{{"a,b,c", "p,x,y"}, {"d,e,f", "p,z,t"}},
			joinKey: "1.1=2.1,1.1=2.1",
			target:  "1.2",
			want:    []string{"x"},
		},
		{
			name:    "2 joins",
			sources: [][]string{{"a,b,c", "p,x,y"}, {"d,e,f", "p,z,t"}, {"p,q,r", "p,q2,r2"}},
			joinKey: "1.1=2.1,2.1=3.1",
			target:  "1.2,3.2",
			want:    []string{"x,q", "x,q2"},
		},
		{
			name:    "2 joins multiple",
			sources: [][]string{joinerSource1, joinerSource2, joinerSource3},
			joinKey: "1.1=2.1,2.1=3.1",
			target:  "1.2,2.2,3.2",
			want:    []string{"12,24,36", "12,24,46", "52,24,36", "52,24,46"},
		},
		{
			name:    "3 joins",
			sources: [][]string{joinerSource1, joinerSource2, joinerSource3, joinerSource4},
			joinKey: "1.1=2.1,2.1=3.1,1.1=4.1",
			target:  "1.2,2.2,3.2,4.2",
			want:    []string{"12,24,36,29", "12,24,46,29", "52,24,36,29", "52,24,46,29"},
		},
		{
			name: "internal join",
			sources: [][]string{
				joinerSource1,
				{"13,14", "11,11", "21,34", "43,44", "53,54"},
				joinerSource3,
			},
			joinKey: "1.1=2.1,2.1=3.1,2.2=1.1",
			target:  "1.2,2.2,3.2",
			want:    []string{"12,11,36", "12,11,46", "52,11,36", "52,11,46"},
		},
		{
			name:    "internal join drops rows",
			sources: [][]string{joinerSource1, joinerSource2, joinerSource3},
			joinKey: "1.1=2.1,2.1=3.1,2.2=1.1",
			target:  "1.2,2.2,3.2",
			want:    nil,
		},
		{
			name:    "disjoint relation is chained",
			sources: [][]string{{"k,1"}, {"k,2"}, {"j,3"}, {"j,4"}},
			joinKey: "1.1=2.1,3.1=4.1",
			target:  "1.2,2.2",
			want:    []string{"1,2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := newSources(tt.sources...)
			key, err := ParseJoinKey(tt.joinKey)
			require.NoError(t, err)

			joiner := NewJoiner(NewRelationJoiner(NewIndexCache(sources, nil), ",", nil), nil)
			assert.Equal(t, tt.want, selectAll(t, joiner.Join(key), sources, tt.target))
		})
	}
}

func TestJoiner_DebugLogging(t *testing.T) {
	sources := newSources(joinerSource1, joinerSource2, joinerSource3)
	key, err := ParseJoinKey("1.1=2.1,2.1=3.1")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	joiner := NewJoiner(NewRelationJoiner(NewIndexCache(sources, logger), ",", logger), logger)

	got := selectAll(t, joiner.Join(key), sources, "1.2,2.2,3.2")
	assert.Equal(t, []string{"12,24,36", "12,24,46", "52,24,36", "52,24,46"}, got)

	out := buf.String()
	assert.Contains(t, out, `msg=joined step=1 relation="1.1=2.1" rows=3`)
	assert.Contains(t, out, `msg=joined step=2 relation="2.1=3.1" rows=4`)
	assert.Contains(t, out, "msg=\"new index\"")
}

func TestJoiner_EmptyKey(t *testing.T) {
	sources := newSources([]string{"a"}, []string{"a"})
	joiner := NewJoiner(NewRelationJoiner(NewIndexCache(sources, nil), ",", nil), nil)

	var errs []error
	for _, err := range joiner.Join(nil) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrValidation)
}

func TestJoiner_Break(t *testing.T) {
	sources := newSources(joinerSource1, joinerSource2, joinerSource3)
	key, err := ParseJoinKey("1.1=2.1,2.1=3.1")
	require.NoError(t, err)
	joiner := NewJoiner(NewRelationJoiner(NewIndexCache(sources, nil), ",", nil), nil)

	n := 0
	for _, err := range joiner.Join(key) {
		require.NoError(t, err)
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
