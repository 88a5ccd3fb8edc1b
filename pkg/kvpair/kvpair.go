// Package kvpair extracts key=value tokens from lines and encodes them as
// records.
package kvpair

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Pairs is the set of key=value tokens of one line. A later key overwrites an
// earlier one but keeps its position.
type Pairs struct {
	keys   []string
	values map[string]string
}

// Parse splits line on spaces and keeps the tokens containing exactly one "=".
func Parse(line string) Pairs {
	p := Pairs{values: make(map[string]string)}
	for _, token := range strings.Split(line, " ") {
		k, v, ok := strings.Cut(token, "=")
		if !ok || strings.Contains(v, "=") {
			continue
		}
		p.Set(k, v)
	}
	return p
}

// Set binds key to value.
func (p *Pairs) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value of key.
func (p Pairs) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in first-seen order.
func (p Pairs) Keys() []string {
	return slices.Clone(p.keys)
}

// Len returns the number of keys.
func (p Pairs) Len() int {
	return len(p.keys)
}

// Map returns a copy of the pairs as a map.
func (p Pairs) Map() map[string]string {
	m := make(map[string]string, len(p.values))
	maps.Copy(m, p.values)
	return m
}

// Encoder writes Pairs in one of the output formats.
type Encoder struct {
	w      io.Writer
	format string
	json   *json.Encoder
	yaml   *yaml.Encoder

	// table format buffers every record until Close
	rows []Pairs
}

// NewEncoder returns an Encoder writing format to w.
func NewEncoder(w io.Writer, format string) (*Encoder, error) {
	e := &Encoder{w: w, format: format}
	switch format {
	case FormatJSON:
		e.json = json.NewEncoder(w)
		e.json.SetEscapeHTML(false)
	case FormatTable:
	case FormatYAML:
		e.yaml = yaml.NewEncoder(w)
		e.yaml.SetIndent(2)
	default:
		return nil, fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatJSON, FormatYAML, FormatTable)
	}
	return e, nil
}

// Encode writes one record. JSON records are compact with sorted keys, one
// per line, and leave HTML characters unescaped. YAML records are separate
// documents.
func (e *Encoder) Encode(p Pairs) error {
	switch e.format {
	case FormatYAML:
		return e.yaml.Encode(p.Map())
	case FormatTable:
		e.rows = append(e.rows, p)
		return nil
	default:
		return e.json.Encode(p.Map())
	}
}

// Close flushes buffered output.
func (e *Encoder) Close() error {
	switch e.format {
	case FormatYAML:
		return e.yaml.Close()
	case FormatTable:
		return e.renderTable()
	default:
		return nil
	}
}

// renderTable writes one column per key, in first-seen order over all rows.
func (e *Encoder) renderTable() error {
	if len(e.rows) == 0 {
		return nil
	}
	var cols []string
	seen := make(map[string]bool)
	for _, p := range e.rows {
		for _, k := range p.keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(e.w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, p := range e.rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = p.values[col]
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

// Run parses every line of lines and encodes the result to w.
func Run(lines iter.Seq2[string, error], w io.Writer, format string) error {
	enc, err := NewEncoder(w, format)
	if err != nil {
		return err
	}
	for line, err := range lines {
		if err != nil {
			return err
		}
		if err := enc.Encode(Parse(line)); err != nil {
			return err
		}
	}
	return enc.Close()
}
