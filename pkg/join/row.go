package join

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// JoinItem is the matched line of one source. Src is zero-based.
type JoinItem struct {
	Src  int
	Item IndexItem
}

func (j JoinItem) String() string {
	return fmt.Sprintf("%d@%d(%s)", j.Src+1, j.Item.Offset, j.Item.Key)
}

// JoinItemList is a partial row: the lines bound so far, keyed by source.
// It is never modified in place; With returns an extended copy so rows
// fanned out from the same parent do not share bindings.
type JoinItemList struct {
	items map[int]JoinItem
}

// NewJoinItemList returns a list binding the given items.
func NewJoinItemList(items ...JoinItem) JoinItemList {
	m := make(map[int]JoinItem, len(items))
	for _, item := range items {
		m[item.Src] = item
	}
	return JoinItemList{items: m}
}

// Get returns the item bound to src.
func (l JoinItemList) Get(src int) (JoinItem, bool) {
	item, ok := l.items[src]
	return item, ok
}

// With returns a shallow copy of l with item bound to item.Src.
func (l JoinItemList) With(item JoinItem) JoinItemList {
	c := l.Copy()
	c.items[item.Src] = item
	return c
}

// Copy returns a shallow copy of l.
func (l JoinItemList) Copy() JoinItemList {
	m := make(map[int]JoinItem, len(l.items)+1)
	maps.Copy(m, l.items)
	return JoinItemList{items: m}
}

// Len returns the number of bound sources.
func (l JoinItemList) Len() int {
	return len(l.items)
}

// Srcs returns the bound sources in ascending order.
func (l JoinItemList) Srcs() []int {
	return slices.Sorted(maps.Keys(l.items))
}

// Items returns the bound items in ascending source order.
func (l JoinItemList) Items() []JoinItem {
	srcs := l.Srcs()
	items := make([]JoinItem, len(srcs))
	for i, src := range srcs {
		items[i] = l.items[src]
	}
	return items
}

func (l JoinItemList) String() string {
	items := l.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// JoinResult is an ordered sequence of partial rows.
type JoinResult []JoinItemList
