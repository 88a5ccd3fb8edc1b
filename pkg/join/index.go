package join

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
)

// KeyFunc derives an index key from a line without its trailing newline.
type KeyFunc func(line string) (string, error)

// IndexItem is one indexed line: its key and the byte offset of its start.
type IndexItem struct {
	Key    string
	Offset int64
}

// ScannedIndexItem is an IndexItem together with the line text re-read from
// its source.
type ScannedIndexItem struct {
	Line string
	Item IndexItem
}

// Index maps keys to the lines of one source that produced them.
// Line text is not kept; Read seeks back to the stored offset.
type Index struct {
	src     io.ReadSeeker
	key     KeyFunc
	keys    []string // first-seen order
	buckets map[string][]IndexItem
}

// NewIndex scans src once and indexes every line by key.
// src must be seekable; a pipe or other stream fails with ErrNotSeekable.
func NewIndex(src io.Reader, key KeyFunc, logger *slog.Logger) (*Index, error) {
	logger = orDiscard(logger)
	rs, err := seekable(src)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}

	idx := &Index{
		src:     rs,
		key:     key,
		buckets: make(map[string][]IndexItem),
	}
	r := bufio.NewReader(rs)
	var offset int64
	for {
		raw, err := r.ReadString('\n')
		if len(raw) > 0 {
			line := trimEOL(raw)
			k, kerr := key(line)
			if kerr != nil {
				return nil, kerr
			}
			logger.Debug("new index item", "key", k, "line", line, "offset", offset)
			idx.add(IndexItem{Key: k, Offset: offset})
			offset += int64(len(raw))
		}
		if err == io.EOF {
			return idx, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading line at offset %d: %w", offset, err)
		}
	}
}

// Key returns the function used to derive keys.
func (idx *Index) Key() KeyFunc {
	return idx.key
}

func (idx *Index) add(item IndexItem) {
	if _, ok := idx.buckets[item.Key]; !ok {
		idx.keys = append(idx.keys, item.Key)
	}
	idx.buckets[item.Key] = append(idx.buckets[item.Key], item)
}

// Get returns the items registered under key in first-seen order, or nil if
// there are none. The returned slice must not be modified.
func (idx *Index) Get(key string) []IndexItem {
	items, ok := idx.buckets[key]
	if !ok {
		return nil
	}
	if len(items) == 0 {
		idx.prune(key)
		return nil
	}
	return items
}

// Delete removes item from its bucket. Deleting an absent item is a no-op.
func (idx *Index) Delete(item IndexItem) {
	items, ok := idx.buckets[item.Key]
	if !ok {
		return
	}
	if i := slices.Index(items, item); i >= 0 {
		items = slices.Delete(items, i, i+1)
		idx.buckets[item.Key] = items
	}
	if len(items) == 0 {
		idx.prune(item.Key)
	}
}

func (idx *Index) prune(key string) {
	delete(idx.buckets, key)
	if i := slices.Index(idx.keys, key); i >= 0 {
		idx.keys = slices.Delete(idx.keys, i, i+1)
	}
}

// Len returns the number of items in the index.
func (idx *Index) Len() int {
	n := 0
	for _, items := range idx.buckets {
		n += len(items)
	}
	return n
}

// Keys yields every key in first-seen order.
func (idx *Index) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range slices.Clone(idx.keys) {
			if len(idx.buckets[k]) == 0 {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}
}

// Items yields every item, grouped by key in first-seen order.
func (idx *Index) Items() iter.Seq[IndexItem] {
	return func(yield func(IndexItem) bool) {
		for k := range idx.Keys() {
			for _, item := range idx.buckets[k] {
				if !yield(item) {
					return
				}
			}
		}
	}
}

// Read re-reads the line at item.
func (idx *Index) Read(item IndexItem) (ScannedIndexItem, error) {
	line, err := readLineAt(idx.src, item.Offset)
	if err != nil {
		return ScannedIndexItem{}, err
	}
	return ScannedIndexItem{Line: line, Item: item}, nil
}

// Scan yields every item together with its line text, in the order of Items.
func (idx *Index) Scan() iter.Seq2[ScannedIndexItem, error] {
	return func(yield func(ScannedIndexItem, error) bool) {
		for item := range idx.Items() {
			scanned, err := idx.Read(item)
			if !yield(scanned, err) || err != nil {
				return
			}
		}
	}
}

func seekable(src io.Reader) (io.ReadSeeker, error) {
	rs, ok := src.(io.ReadSeeker)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotSeekable, src)
	}
	// *os.File always has Seek; pipes and terminals fail here.
	if _, err := rs.Seek(0, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}
	return rs, nil
}

func readLineAt(src io.Reader, offset int64) (string, error) {
	rs, err := seekable(src)
	if err != nil {
		return "", err
	}
	if _, err := rs.Seek(offset, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking to offset %d: %w", offset, err)
	}
	raw, err := bufio.NewReader(rs).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading line at offset %d: %w", offset, err)
	}
	return trimEOL(raw), nil
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
