// Package linetools joins line-oriented text files on column equality.
//
// Each source is a seekable file of delimited lines. A join key relates
// columns of different sources, and a target selects the columns to print.
// Locations are written "source.column", both one-based.
//
// # Basic Usage
//
//	lines, err := linetools.Join(
//	    []io.Reader{users, roles},
//	    "1.1=2.1",     // join key
//	    "1.2,2.2",     // target
//	    linetools.WithDelimiter("\t"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for line, err := range lines {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(line)
//	}
//
// # Files
//
// JoinFiles opens the files itself and collects the output:
//
//	out, err := linetools.JoinFiles([]string{"a.csv", "b.csv"}, "1.1=2.1", "1.2-")
package linetools

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/praetorian-inc/linetools/pkg/join"
	"github.com/praetorian-inc/linetools/pkg/source"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/linetools" without subpackages.
type (
	// Location is a (source, column) position.
	Location = join.Location

	// Range selects a span of columns.
	Range = join.Range

	// Target is the output projection.
	Target = join.Target

	// JoinKey is the list of relations rows must satisfy.
	JoinKey = join.JoinKey
)

// Re-export error kinds.
var (
	ErrSyntax          = join.ErrSyntax
	ErrValidation      = join.ErrValidation
	ErrOutOfRange      = join.ErrOutOfRange
	ErrNotSeekable     = join.ErrNotSeekable
	ErrKeyDerivation   = join.ErrKeyDerivation
	ErrInconsistentRow = join.ErrInconsistentRow
)

// DefaultDelimiter separates columns unless WithDelimiter is given.
const DefaultDelimiter = ","

// Option configures a join.
type Option func(*options)

type options struct {
	delimiter string
	logger    *slog.Logger
}

// WithDelimiter sets the column delimiter. It must be one character.
func WithDelimiter(delimiter string) Option {
	return func(o *options) {
		o.delimiter = delimiter
	}
}

// WithLogger sets the logger receiving debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Join validates its arguments and returns the output lines of the join.
// The sources must stay open until the sequence is exhausted.
func Join(sources []io.Reader, joinKey, target string, opts ...Option) (iter.Seq2[string, error], error) {
	o := options{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(&o)
	}
	r, err := join.New(join.Config{
		Sources:   sources,
		Delimiter: o.delimiter,
		JoinKey:   joinKey,
		Target:    target,
		Logger:    o.logger,
	})
	if err != nil {
		return nil, err
	}
	return r.Run(), nil
}

// JoinFiles joins the files at paths and returns every output line.
func JoinFiles(paths []string, joinKey, target string, opts ...Option) (out []string, err error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("%w: require multiple sources, got %d", ErrValidation, len(paths))
	}
	set, err := source.Open(paths, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, set.Close())
	}()

	lines, err := Join(set.Readers(), joinKey, target, opts...)
	if err != nil {
		return nil, err
	}
	for line, err := range lines {
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

// ParseTarget parses a target expression such as "1.2,2.1-".
func ParseTarget(value string) (Target, error) {
	return join.ParseTarget(value)
}

// ParseJoinKey parses a join key expression such as "1.1=2.1,2.3=3.1".
func ParseJoinKey(value string) (JoinKey, error) {
	return join.ParseJoinKey(value)
}
