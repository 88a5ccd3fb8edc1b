// Package setgrep selects lines containing any string of a seed set.
package setgrep

import (
	"fmt"
	"io"
	"iter"

	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/linetools/pkg/source"
)

// Matcher finds seed strings in lines using an Aho-Corasick automaton.
// It is not safe for concurrent use.
type Matcher struct {
	matcher *ahocorasick.Matcher
	seeds   []string // seed at each automaton index
}

// New builds a Matcher from seeds. Empty and repeated seeds are dropped.
func New(seeds []string) *Matcher {
	m := &Matcher{}
	seen := make(map[string]bool)
	for _, seed := range seeds {
		if seed == "" || seen[seed] {
			continue
		}
		seen[seed] = true
		m.seeds = append(m.seeds, seed)
	}

	// Build Aho-Corasick matcher if we have seeds
	if len(m.seeds) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(m.seeds)
	}
	return m
}

// Len returns the number of distinct seeds.
func (m *Matcher) Len() int {
	return len(m.seeds)
}

// Match reports whether line contains any seed.
func (m *Matcher) Match(line string) bool {
	if m.matcher == nil {
		return false
	}
	return len(m.matcher.Match([]byte(line))) > 0
}

// Matches returns the seeds found in line, in seed order.
func (m *Matcher) Matches(line string) []string {
	if m.matcher == nil {
		return nil
	}
	hits := m.matcher.Match([]byte(line))
	if len(hits) == 0 {
		return nil
	}
	found := make([]bool, len(m.seeds))
	for _, hit := range hits {
		found[hit] = true
	}
	var out []string
	for i, ok := range found {
		if ok {
			out = append(out, m.seeds[i])
		}
	}
	return out
}

// Grep yields every line of src that contains a seed, once, in input order.
// Lines are yielded without their line terminator.
func (m *Matcher) Grep(src io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for line, err := range source.Lines(src) {
			if err != nil {
				yield("", err)
				return
			}
			if m.Match(line) && !yield(line, nil) {
				return
			}
		}
	}
}

// ReadSeeds reads one seed per line from every reader.
func ReadSeeds(readers ...io.Reader) ([]string, error) {
	var seeds []string
	for i, r := range readers {
		for line, err := range source.Lines(r) {
			if err != nil {
				return nil, fmt.Errorf("reading seeds %d: %w", i+1, err)
			}
			seeds = append(seeds, line)
		}
	}
	return seeds, nil
}
