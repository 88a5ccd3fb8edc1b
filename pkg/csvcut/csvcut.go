// Package csvcut selects columns from CSV input.
//
// Columns are chosen with the range grammar of the join target, minus the
// source part:
//
//	1,3-      column 1, then column 3 to the end
//	-2,5-7    columns 1 to 2, then 5 to 7
package csvcut

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/praetorian-inc/linetools/pkg/join"
)

var (
	// ErrInvalidDelimiter is returned for an output delimiter that is not one
	// character.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	// ErrInvalidHeaders is returned for a header list with an empty name.
	ErrInvalidHeaders = errors.New("invalid headers")
)

// Options configure Run.
type Options struct {
	// Fields is the column expression, e.g. "1,3-".
	Fields string
	// Delimiter separates output columns. It must be one character.
	Delimiter string
	// Headers names the output columns, comma separated. It overrides the
	// headers read from the input.
	Headers string
	// HeadersIncluded reads the first input row as headers. The row is cut
	// like any other.
	HeadersIncluded bool
	// JSON writes one JSON value per row: an object when headers are known,
	// an array otherwise.
	JSON   bool
	Logger *slog.Logger
}

// Run reads CSV records from r and writes the selected columns to w.
func Run(r io.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	target, err := join.ParseColumns(opts.Fields)
	if err != nil {
		return err
	}
	var headers []string
	if opts.Headers != "" {
		headers, err = parseHeaders(opts.Headers)
		if err != nil {
			return err
		}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if opts.HeadersIncluded {
		first, err := reader.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading headers: %w", err)
		}
		if first != nil && headers == nil {
			cut, err := Select(target, first)
			if err != nil {
				return err
			}
			if err := checkHeaders(cut); err != nil {
				return err
			}
			headers = cut
		}
	}

	out, err := newWriter(w, opts, headers)
	if err != nil {
		return err
	}
	n := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		row, err := Select(target, fields)
		if err != nil {
			return err
		}
		if err := out.write(row); err != nil {
			return err
		}
		n++
	}
	logger.Debug("csvcut done", "rows", n, "headers", len(headers))
	return out.flush()
}

// Select returns the columns of row chosen by target, a result of
// join.ParseColumns.
func Select(target join.Target, row []string) ([]string, error) {
	if row == nil {
		row = []string{}
	}
	selected, err := join.SelectColumns(target, [][]string{row})
	if err != nil {
		return nil, err
	}
	if selected == nil {
		return []string{}, nil
	}
	return selected, nil
}

func parseHeaders(value string) ([]string, error) {
	headers := strings.Split(value, ",")
	if err := checkHeaders(headers); err != nil {
		return nil, err
	}
	return headers, nil
}

func checkHeaders(headers []string) error {
	for i, h := range headers {
		if h == "" {
			return fmt.Errorf("%w: header %d is empty in %q", ErrInvalidHeaders, i+1, strings.Join(headers, ","))
		}
	}
	return nil
}

type writer struct {
	headers []string
	csv     *csv.Writer
	json    *json.Encoder
}

func newWriter(w io.Writer, opts Options, headers []string) (*writer, error) {
	out := &writer{headers: headers}
	if opts.JSON {
		out.json = json.NewEncoder(w)
		out.json.SetEscapeHTML(false)
		return out, nil
	}

	if utf8.RuneCountInString(opts.Delimiter) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, opts.Delimiter)
	}
	comma, _ := utf8.DecodeRuneInString(opts.Delimiter)
	out.csv = csv.NewWriter(w)
	out.csv.Comma = comma
	if headers != nil {
		if err := out.csv.Write(headers); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (w *writer) write(row []string) error {
	if w.json == nil {
		return w.csv.Write(row)
	}
	if w.headers == nil {
		return w.json.Encode(row)
	}
	return w.json.Encode(record{headers: w.headers, values: row})
}

func (w *writer) flush() error {
	if w.csv == nil {
		return nil
	}
	w.csv.Flush()
	return w.csv.Error()
}

// record is a JSON object keeping the header order. Values without a header
// are dropped and headers without a value are omitted.
type record struct {
	headers []string
	values  []string
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, h := range r.headers[:min(len(r.headers), len(r.values))] {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(h); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(r.values[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
