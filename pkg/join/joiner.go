package join

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
)

// Joiner applies every relation of a JoinKey in order, feeding each
// relation's output into the next one.
type Joiner struct {
	rel    *RelationJoiner
	logger *slog.Logger
}

// NewJoiner returns a Joiner over rel.
//
// When logger has debug enabled, the output of each relation is collected and
// logged before it is passed on, which gives up lazy evaluation.
func NewJoiner(rel *RelationJoiner, logger *slog.Logger) *Joiner {
	return &Joiner{
		rel:    rel,
		logger: orDiscard(logger),
	}
}

// Join yields the partial rows satisfying every relation of key.
func (j *Joiner) Join(key JoinKey) iter.Seq2[JoinItemList, error] {
	return func(yield func(JoinItemList, error) bool) {
		if len(key) == 0 {
			yield(JoinItemList{}, fmt.Errorf("%w: join key is empty", ErrValidation))
			return
		}
		debug := j.logger.Enabled(context.Background(), slog.LevelDebug)

		var rows iter.Seq2[JoinItemList, error]
		for i, rel := range key {
			rows = j.rel.Join(rel, rows)
			if !debug {
				continue
			}
			collected, err := collect(rows)
			if err != nil {
				yield(JoinItemList{}, err)
				return
			}
			n := i + 1
			j.logger.Debug("joined", "step", n, "relation", relationString(rel), "rows", len(collected))
			for _, row := range collected {
				j.logger.Debug("joined row", "step", n, "relation", relationString(rel), "row", row)
			}
			rows = replay(collected)
		}

		for row, err := range rows {
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

func collect(rows iter.Seq2[JoinItemList, error]) (JoinResult, error) {
	var result JoinResult
	for row, err := range rows {
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, nil
}

func replay(result JoinResult) iter.Seq2[JoinItemList, error] {
	return func(yield func(JoinItemList, error) bool) {
		for _, row := range result {
			if !yield(row, nil) {
				return
			}
		}
	}
}
