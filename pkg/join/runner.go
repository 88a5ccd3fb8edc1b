package join

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"unicode/utf8"
)

// Config for a join run.
type Config struct {
	// Sources are the seekable inputs, in DSL order (source 1 first).
	// They stay owned by the caller.
	Sources []io.Reader

	// Delimiter separates columns of the input and the output.
	// It must be exactly one character.
	Delimiter string

	// JoinKey is the join key expression, e.g. "1.1=2.1,2.1=3.1".
	JoinKey string

	// Target is the output projection, e.g. "1.2,2.1-".
	Target string

	// Logger receives debug records. Nil discards them.
	Logger *slog.Logger
}

// Runner joins the configured sources and projects the result.
type Runner struct {
	cfg     Config
	joinKey JoinKey
	target  Target
	logger  *slog.Logger
}

// New validates cfg and parses its expressions.
func New(cfg Config) (*Runner, error) {
	logger := orDiscard(cfg.Logger)
	logger.Debug("options", "delimiter", cfg.Delimiter, "joinkey", cfg.JoinKey, "target", cfg.Target)

	if len(cfg.Sources) < 2 {
		return nil, fmt.Errorf("%w: require multiple sources, got %d", ErrValidation, len(cfg.Sources))
	}
	if utf8.RuneCountInString(cfg.Delimiter) != 1 {
		return nil, fmt.Errorf("%w: delimiter must be one character, got %q", ErrValidation, cfg.Delimiter)
	}
	joinKey, err := ParseJoinKey(cfg.JoinKey)
	if err != nil {
		return nil, err
	}
	target, err := ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:     cfg,
		joinKey: joinKey,
		target:  target,
		logger:  logger,
	}, nil
}

// Run yields one output line per joined row.
//
// Nothing is read until the sequence is iterated, and breaking out of the
// loop stops the run. The first error ends the sequence.
func (r *Runner) Run() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cache := NewIndexCache(r.cfg.Sources, r.logger)
		joiner := NewJoiner(NewRelationJoiner(cache, r.cfg.Delimiter, r.logger), r.logger)
		selector := NewSelector(r.target, r.cfg.Sources, r.cfg.Delimiter)
		for row, err := range joiner.Join(r.joinKey) {
			if err != nil {
				yield("", err)
				return
			}
			line, err := selector.Select(row)
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}

// JoinKey returns the parsed join key.
func (r *Runner) JoinKey() JoinKey {
	return r.joinKey
}

// Target returns the parsed target.
func (r *Runner) Target() Target {
	return r.target
}
