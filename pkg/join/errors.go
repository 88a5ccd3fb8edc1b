package join

import "errors"

// Error kinds reported by the join engine. Concrete errors wrap one of these,
// so callers can classify failures with errors.Is.
var (
	// ErrSyntax reports malformed target or join key text.
	ErrSyntax = errors.New("syntax error")

	// ErrValidation reports semantically invalid arguments, such as a relation
	// naming the same source twice or fewer than two sources.
	ErrValidation = errors.New("validation error")

	// ErrOutOfRange reports a location that addresses a missing source.
	ErrOutOfRange = errors.New("out of range")

	// ErrNotSeekable reports a source that cannot be re-read by offset.
	ErrNotSeekable = errors.New("source is not seekable")

	// ErrKeyDerivation reports a line lacking the column used as a join key.
	ErrKeyDerivation = errors.New("cannot derive key")

	// ErrInconsistentRow reports partial rows of different shapes entering
	// the same relation step.
	ErrInconsistentRow = errors.New("inconsistent row")
)
