// Package join implements a positional equality join over line-oriented
// text sources.
//
// Columns are addressed with a small DSL. A location is written
// "source.column" (both 1-based). A target lists the columns to output:
//
//	1.2,2.1-,-3.2,1.2-2.5
//
// and a join key lists equality relations applied in order:
//
//	1.1=2.1,2.1=3.1
//
// Each addressed column is indexed lazily by one scan of its source. The
// index stores keys and byte offsets only, and line text is re-read by
// seeking when it is needed again.
package join

import (
	"fmt"
	"math"
)

// Location is a (source, column) address.
// The DSL uses 1-based values; boundaries computed by Ends are zero-based.
type Location struct {
	Src int
	Col int
}

// AddCol returns a new Location with diff added to Col.
func (l Location) AddCol(diff int) Location {
	return Location{Src: l.Src, Col: l.Col + diff}
}

// SetCol returns a new Location with Col replaced.
func (l Location) SetCol(col int) Location {
	return Location{Src: l.Src, Col: col}
}

// AddSrc returns a new Location with diff added to Src.
func (l Location) AddSrc(diff int) Location {
	return Location{Src: l.Src + diff, Col: l.Col}
}

// Add returns a new Location with the diffs added to Src and Col.
func (l Location) Add(srcDiff, colDiff int) Location {
	return Location{Src: l.Src + srcDiff, Col: l.Col + colDiff}
}

func (l Location) String() string {
	return fmt.Sprintf("%d.%d", l.Src, l.Col)
}

// Range is a selected portion of the virtual concatenation of source columns.
// It is one of Single, Left, Right or Interval.
type Range interface {
	isRange()
	String() string
}

// Single selects exactly one column.
type Single struct {
	Loc Location
}

// Left selects from Loc to the last column of Loc's source.
type Left struct {
	Loc Location
}

// Right selects from the first column of Loc's source up to and including Loc.
type Right struct {
	Loc Location
}

// Interval selects from Left to Right inclusive, possibly across sources.
type Interval struct {
	Left  Location
	Right Location
}

func (Single) isRange()   {}
func (Left) isRange()     {}
func (Right) isRange()    {}
func (Interval) isRange() {}

func (r Single) String() string   { return r.Loc.String() }
func (r Left) String() string     { return r.Loc.String() + "-" }
func (r Right) String() string    { return "-" + r.Loc.String() }
func (r Interval) String() string { return r.Left.String() + "-" + r.Right.String() }

// Ends returns the zero-based half-open boundaries of r.
// The left end is inclusive for both source and column; the right end is
// exclusive, so the selected sources are [l.Src, r.Src) and the columns run
// from l.Col in the first source to r.Col in the last one.
func Ends(r Range) (Location, Location) {
	switch v := r.(type) {
	case Single:
		return v.Loc.Add(-1, -1), v.Loc
	case Left:
		return v.Loc.Add(-1, -1), v.Loc.SetCol(math.MaxInt)
	case Right:
		return v.Loc.SetCol(0).AddSrc(-1), v.Loc
	case Interval:
		return v.Left.Add(-1, -1), v.Right
	default:
		panic(fmt.Sprintf("join: unknown range %T", r))
	}
}

// Target is an ordered list of ranges defining an output projection.
type Target []Range

// JoinKeyRelation is an equality constraint between two locations in
// different sources.
type JoinKeyRelation = Interval

// JoinKey is an ordered list of relations applied in sequence.
type JoinKey []JoinKeyRelation
