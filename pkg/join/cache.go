package join

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// IndexCache builds one Index per (source, column) on first use.
// Locations passed to Get are zero-based.
type IndexCache struct {
	sources []io.Reader
	cache   map[Location]*Index
	logger  *slog.Logger
}

// NewIndexCache returns a cache over sources. The sources stay owned by the
// caller and must remain open while the cache is used.
func NewIndexCache(sources []io.Reader, logger *slog.Logger) *IndexCache {
	return &IndexCache{
		sources: sources,
		cache:   make(map[Location]*Index),
		logger:  orDiscard(logger),
	}
}

// Get returns the Index of loc, building it if it is not cached yet.
func (c *IndexCache) Get(loc Location, delimiter string) (*Index, error) {
	if idx, ok := c.cache[loc]; ok {
		return idx, nil
	}
	if loc.Src < 0 || loc.Src >= len(c.sources) {
		return nil, fmt.Errorf("%w: source %d not in [1, %d]", ErrOutOfRange, loc.Src+1, len(c.sources))
	}
	c.logger.Debug("new index", "source", loc.Src+1, "column", loc.Col+1, "delimiter", delimiter)
	idx, err := NewIndex(c.sources[loc.Src], ColumnKey(loc.Col, delimiter), c.logger)
	if err != nil {
		return nil, fmt.Errorf("index source %d column %d: %w", loc.Src+1, loc.Col+1, err)
	}
	c.logger.Debug("index built", "source", loc.Src+1, "column", loc.Col+1, "keys", len(idx.keys), "items", idx.Len())
	c.cache[loc] = idx
	return idx, nil
}

// ColumnKey returns a KeyFunc that picks the zero-based column col of a line
// split by delimiter.
func ColumnKey(col int, delimiter string) KeyFunc {
	return func(line string) (string, error) {
		fields := strings.Split(line, delimiter)
		if col < 0 || col >= len(fields) {
			return "", fmt.Errorf("%w: line %q has no column %d", ErrKeyDerivation, line, col+1)
		}
		return fields[col], nil
	}
}
