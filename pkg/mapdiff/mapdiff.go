// Package mapdiff compares two line sources by a key column.
package mapdiff

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/praetorian-inc/linetools/pkg/join"
)

var (
	// ErrInvalidDelimiter is returned for a delimiter that is not one character.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	// ErrNoKey is returned for a line without the key column.
	ErrNoKey = errors.New("no key")
	// ErrDuplicatedKey is returned when a source has the same key twice.
	ErrDuplicatedKey = errors.New("duplicated key")
)

// Kind classifies a key.
type Kind int

const (
	Equal Kind = iota
	LeftOnly
	RightOnly
	Changed
)

func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case LeftOnly:
		return "left-only"
	case RightOnly:
		return "right-only"
	case Changed:
		return "changed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diff is the comparison result of one key.
type Diff struct {
	Kind  Kind
	Key   string
	Left  string
	Right string
}

// Line markers.
const (
	MarkerLeft         = "<"
	MarkerRight        = ">"
	MarkerChangedLeft  = "<><"
	MarkerChangedRight = "<>>"
)

// Lines renders d in the classic diff notation.
func (d Diff) Lines() []string {
	switch d.Kind {
	case LeftOnly:
		return []string{MarkerLeft + " " + d.Left}
	case RightOnly:
		return []string{MarkerRight + " " + d.Right}
	case Changed:
		return []string{MarkerChangedLeft + " " + d.Left, MarkerChangedRight + " " + d.Right}
	default:
		return []string{d.Left}
	}
}

// Options configure Run.
type Options struct {
	// Key is the zero-based key column.
	Key int
	// Delimiter separates columns. It must be one character.
	Delimiter string
	// WithNoDiff also yields keys whose lines are equal.
	WithNoDiff bool
	Logger     *slog.Logger
}

// Run compares left and right, both seekable. It yields the keys of left in
// first-seen order followed by the keys only found in right.
func Run(left, right io.Reader, opts Options) iter.Seq2[Diff, error] {
	return func(yield func(Diff, error) bool) {
		if utf8.RuneCountInString(opts.Delimiter) != 1 {
			yield(Diff{}, fmt.Errorf("%w: %q", ErrInvalidDelimiter, opts.Delimiter))
			return
		}
		logger := opts.Logger
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}

		lidx, err := join.NewIndex(left, uniqueKey("left", opts), logger)
		if err != nil {
			yield(Diff{}, err)
			return
		}
		ridx, err := join.NewIndex(right, uniqueKey("right", opts), logger)
		if err != nil {
			yield(Diff{}, err)
			return
		}
		logger.Debug("indexed", "left", lidx.Len(), "right", ridx.Len())

		for key := range lidx.Keys() {
			d, err := compare(key, lidx, ridx)
			if err != nil {
				yield(Diff{}, err)
				return
			}
			if d.Kind == Equal && !opts.WithNoDiff {
				continue
			}
			if !yield(d, nil) {
				return
			}
		}
		for key := range ridx.Keys() {
			if lidx.Get(key) != nil {
				continue
			}
			r, err := readOnly(ridx, key)
			if err != nil {
				yield(Diff{}, err)
				return
			}
			if !yield(Diff{Kind: RightOnly, Key: key, Right: r}, nil) {
				return
			}
		}
	}
}

func compare(key string, lidx, ridx *join.Index) (Diff, error) {
	l, err := readOnly(lidx, key)
	if err != nil {
		return Diff{}, err
	}
	if ridx.Get(key) == nil {
		return Diff{Kind: LeftOnly, Key: key, Left: l}, nil
	}
	r, err := readOnly(ridx, key)
	if err != nil {
		return Diff{}, err
	}
	if l != r {
		return Diff{Kind: Changed, Key: key, Left: l, Right: r}, nil
	}
	return Diff{Kind: Equal, Key: key, Left: l, Right: r}, nil
}

// readOnly reads the single line of key without trailing whitespace.
func readOnly(idx *join.Index, key string) (string, error) {
	scanned, err := idx.Read(idx.Get(key)[0])
	if err != nil {
		return "", err
	}
	return trimRight(scanned.Line), nil
}

func trimRight(line string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

// uniqueKey returns a KeyFunc that rejects lines without the key column and
// keys seen before in the same source.
func uniqueKey(name string, opts Options) join.KeyFunc {
	seen := make(map[string]bool)
	line := 0
	return func(s string) (string, error) {
		line++
		fields := strings.Split(trimRight(s), opts.Delimiter)
		if opts.Key < 0 || opts.Key >= len(fields) {
			return "", fmt.Errorf("%w: %s at line %d", ErrNoKey, name, line)
		}
		key := fields[opts.Key]
		if seen[key] {
			return "", fmt.Errorf("%w: %s at line %d", ErrDuplicatedKey, name, line)
		}
		seen[key] = true
		return key, nil
	}
}
