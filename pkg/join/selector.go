package join

import (
	"fmt"
	"io"
	"strings"
)

// SelectColumns projects columns by target.
//
// columns holds the split line of each source, indexed by zero-based source.
// A nil entry marks a source without a bound line; a range spanning it
// fails with ErrOutOfRange. The selections of all ranges are concatenated in
// target order.
func SelectColumns(target Target, columns [][]string) ([]string, error) {
	var out []string
	for _, r := range target {
		selected, err := selectRange(r, columns)
		if err != nil {
			return nil, err
		}
		out = append(out, selected...)
	}
	return out, nil
}

func selectRange(rng Range, columns [][]string) ([]string, error) {
	l, r := Ends(rng)
	n := len(columns)
	inRange := func(src int) bool {
		return 0 <= src && src < n
	}
	if !inRange(l.Src) || !inRange(r.Src-1) {
		return nil, fmt.Errorf("%w: %s not in sources [1, %d]", ErrOutOfRange, rng, n)
	}
	if l.Src >= r.Src {
		return nil, nil
	}

	rows := columns[l.Src:r.Src]
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: %s spans source %d which has no line", ErrOutOfRange, rng, l.Src+i+1)
		}
	}
	if len(rows) == 1 {
		return clip(rows[0], l.Col, r.Col), nil
	}
	last := len(rows) - 1
	out := clip(rows[0], l.Col, len(rows[0]))
	for _, row := range rows[1:last] {
		out = append(out, row...)
	}
	return append(out, clip(rows[last], 0, r.Col)...), nil
}

// clip returns a copy of row[from:to] with both bounds clamped to the row.
func clip(row []string, from, to int) []string {
	from = max(0, min(from, len(row)))
	to = max(0, min(to, len(row)))
	if from >= to {
		return []string{}
	}
	out := make([]string, to-from)
	copy(out, row[from:to])
	return out
}

// Selector turns joined rows into output lines.
type Selector struct {
	target    Target
	sources   []io.Reader
	delimiter string
}

// NewSelector returns a Selector projecting target from sources.
func NewSelector(target Target, sources []io.Reader, delimiter string) *Selector {
	return &Selector{
		target:    target,
		sources:   sources,
		delimiter: delimiter,
	}
}

// Select re-reads the lines bound in row and joins the selected columns with
// the delimiter.
func (s *Selector) Select(row JoinItemList) (string, error) {
	columns := make([][]string, len(s.sources))
	for _, item := range row.Items() {
		if item.Src < 0 || item.Src >= len(s.sources) {
			return "", fmt.Errorf("%w: source %d not in [1, %d]", ErrOutOfRange, item.Src+1, len(s.sources))
		}
		line, err := readLineAt(s.sources[item.Src], item.Item.Offset)
		if err != nil {
			return "", fmt.Errorf("source %d: %w", item.Src+1, err)
		}
		columns[item.Src] = strings.Split(line, s.delimiter)
	}
	selected, err := SelectColumns(s.target, columns)
	if err != nil {
		return "", err
	}
	return strings.Join(selected, s.delimiter), nil
}
