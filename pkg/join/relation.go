package join

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
)

// RelationJoiner resolves one JoinKeyRelation.
type RelationJoiner struct {
	cache     *IndexCache
	delimiter string
	logger    *slog.Logger
}

// NewRelationJoiner returns a RelationJoiner reading indices from cache.
func NewRelationJoiner(cache *IndexCache, delimiter string, logger *slog.Logger) *RelationJoiner {
	return &RelationJoiner{
		cache:     cache,
		delimiter: delimiter,
		logger:    orDiscard(logger),
	}
}

// Join joins rows with the sources named by rel.
//
// With nil rows every line of the left location is joined with the lines of
// the right location sharing its key. Otherwise each incoming row is passed
// through, extended or filtered depending on which sides of rel it binds.
// Indices are built when the returned sequence is first iterated.
func (j *RelationJoiner) Join(rel JoinKeyRelation, rows iter.Seq2[JoinItemList, error]) iter.Seq2[JoinItemList, error] {
	if rows == nil {
		return j.fullJoin(rel)
	}
	return j.incrementalJoin(rel, rows)
}

type joinSide struct {
	loc   Location
	index *Index
}

func (j *RelationJoiner) sides(rel JoinKeyRelation) (joinSide, joinSide, error) {
	lloc, rloc := rel.Left.Add(-1, -1), rel.Right.Add(-1, -1)
	lindex, err := j.cache.Get(lloc, j.delimiter)
	if err != nil {
		return joinSide{}, joinSide{}, fmt.Errorf("relation %s: %w", relationString(rel), err)
	}
	rindex, err := j.cache.Get(rloc, j.delimiter)
	if err != nil {
		return joinSide{}, joinSide{}, fmt.Errorf("relation %s: %w", relationString(rel), err)
	}
	return joinSide{loc: lloc, index: lindex}, joinSide{loc: rloc, index: rindex}, nil
}

func (j *RelationJoiner) fullJoin(rel JoinKeyRelation) iter.Seq2[JoinItemList, error] {
	return func(yield func(JoinItemList, error) bool) {
		left, right, err := j.sides(rel)
		if err != nil {
			yield(JoinItemList{}, err)
			return
		}
		// cross join for all lines
		for litem := range left.index.Items() {
			ritems := right.index.Get(litem.Key)
			if len(ritems) == 0 {
				continue
			}
			base := NewJoinItemList(JoinItem{Src: left.loc.Src, Item: litem})
			for _, ritem := range ritems {
				row := base.With(JoinItem{Src: right.loc.Src, Item: ritem})
				j.logger.Debug("full join", "relation", relationString(rel), "left", litem, "right", ritem)
				if !yield(row, nil) {
					return
				}
			}
		}
	}
}

func (j *RelationJoiner) incrementalJoin(rel JoinKeyRelation, rows iter.Seq2[JoinItemList, error]) iter.Seq2[JoinItemList, error] {
	return func(yield func(JoinItemList, error) bool) {
		left, right, err := j.sides(rel)
		if err != nil {
			yield(JoinItemList{}, err)
			return
		}
		var shape []int
		for row, err := range rows {
			if err != nil {
				yield(JoinItemList{}, err)
				return
			}
			srcs := row.Srcs()
			if shape == nil {
				shape = srcs
			} else if !slices.Equal(shape, srcs) {
				yield(JoinItemList{}, fmt.Errorf("%w: relation %s want sources %v, got %v",
					ErrInconsistentRow, relationString(rel), oneBased(shape), oneBased(srcs)))
				return
			}
			j.logger.Debug("join check", "relation", relationString(rel), "row", row)

			litem, lbound := row.Get(left.loc.Src)
			ritem, rbound := row.Get(right.loc.Src)
			var ok bool
			switch {
			case !lbound && !rbound:
				ok = yield(row, nil)
			case lbound && !rbound:
				ok = j.extend(row, litem, left, right, yield)
			case !lbound && rbound:
				ok = j.extend(row, ritem, right, left, yield)
			default:
				ok = j.filter(row, litem, ritem, left, right, yield)
			}
			if !ok {
				return
			}
		}
	}
}

// extend binds every line of to whose key equals the key of the bound item.
// A row without matches is dropped.
func (j *RelationJoiner) extend(row JoinItemList, bound JoinItem, from, to joinSide, yield func(JoinItemList, error) bool) bool {
	key, err := deriveKey(from.index, bound.Item)
	if err != nil {
		yield(JoinItemList{}, err)
		return false
	}
	for _, item := range to.index.Get(key) {
		j.logger.Debug("join", "from", bound, "key", key, "to", item)
		if !yield(row.With(JoinItem{Src: to.loc.Src, Item: item}), nil) {
			return false
		}
	}
	return true
}

// filter keeps a row whose two bound lines agree on the relation's key.
func (j *RelationJoiner) filter(row JoinItemList, litem, ritem JoinItem, left, right joinSide, yield func(JoinItemList, error) bool) bool {
	lk, err := deriveKey(left.index, litem.Item)
	if err != nil {
		yield(JoinItemList{}, err)
		return false
	}
	rk, err := deriveKey(right.index, ritem.Item)
	if err != nil {
		yield(JoinItemList{}, err)
		return false
	}
	j.logger.Debug("join by eq", "left", litem, "right", ritem, "left_key", lk, "right_key", rk)
	if lk != rk {
		return true
	}
	return yield(row, nil)
}

func deriveKey(idx *Index, item IndexItem) (string, error) {
	scanned, err := idx.Read(item)
	if err != nil {
		return "", err
	}
	return idx.Key()(scanned.Line)
}

func relationString(rel JoinKeyRelation) string {
	return rel.Left.String() + "=" + rel.Right.String()
}

func oneBased(srcs []int) []int {
	r := make([]int, len(srcs))
	for i, s := range srcs {
		r[i] = s + 1
	}
	return r
}
