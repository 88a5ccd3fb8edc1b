// Package source opens the seekable inputs of a join.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// Stdin is the path that names standard input.
const Stdin = "-"

// Set is a list of open sources. Close releases all of them and removes the
// temporary file standard input was spooled to.
type Set struct {
	files []*os.File
	spool string
}

// Open opens paths in order. A path of "-" reads stdin. When only one path is
// given, stdin becomes the first source and the file the second.
//
// Standard input is copied to a temporary file so that it can be seeked.
// stdin is read at most once.
func Open(paths []string, stdin io.Reader) (*Set, error) {
	if len(paths) == 1 && paths[0] != Stdin {
		paths = []string{Stdin, paths[0]}
	}

	s := &Set{}
	for _, path := range paths {
		if err := s.open(path, stdin); err != nil {
			return nil, errors.Join(err, s.Close())
		}
	}
	return s, nil
}

func (s *Set) open(path string, stdin io.Reader) error {
	if path != Stdin {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		s.files = append(s.files, f)
		return nil
	}
	if s.spool != "" {
		return errors.New("standard input given more than once")
	}
	f, err := spool(stdin)
	if err != nil {
		return err
	}
	s.spool = f.Name()
	s.files = append(s.files, f)
	return nil
}

func spool(stdin io.Reader) (*os.File, error) {
	if stdin == nil {
		return nil, errors.New("standard input is not available")
	}
	f, err := os.CreateTemp("", "linetools-stdin-*")
	if err != nil {
		return nil, fmt.Errorf("spool stdin: %w", err)
	}
	if _, err := io.Copy(f, stdin); err != nil {
		return nil, errors.Join(fmt.Errorf("spool stdin: %w", err), f.Close(), os.Remove(f.Name()))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Join(fmt.Errorf("spool stdin: %w", err), f.Close(), os.Remove(f.Name()))
	}
	return f, nil
}

// Readers returns the sources in order.
func (s *Set) Readers() []io.Reader {
	readers := make([]io.Reader, len(s.files))
	for i, f := range s.files {
		readers[i] = f
	}
	return readers
}

// Len returns the number of sources.
func (s *Set) Len() int {
	return len(s.files)
}

// Close closes every source and removes the stdin spool file.
func (s *Set) Close() error {
	var errs []error
	for _, f := range s.files {
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	s.files = nil
	if s.spool != "" {
		if err := os.Remove(s.spool); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
		s.spool = ""
	}
	return errors.Join(errs...)
}

// Lines yields the lines of r without "\n" or "\r\n".
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		for {
			raw, err := br.ReadString('\n')
			if len(raw) > 0 && !yield(strings.TrimRight(raw, "\r\n"), nil) {
				return
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
		}
	}
}
