package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/praetorian-inc/linetools/pkg/mapdiff"
	"github.com/spf13/cobra"
)

var (
	mapdiffKey        int
	mapdiffDelimiter  string
	mapdiffWithNoDiff bool
)

// diffStyles holds the color of each diff marker
type diffStyles struct {
	left    *color.Color
	right   *color.Color
	changed *color.Color
}

func newDiffStyles(enabled bool) *diffStyles {
	s := &diffStyles{
		left:    color.New(color.FgRed),
		right:   color.New(color.FgGreen),
		changed: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{s.left, s.right, s.changed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// render returns the output lines of d with colored markers.
func (s *diffStyles) render(d mapdiff.Diff) []string {
	switch d.Kind {
	case mapdiff.LeftOnly:
		return []string{s.left.Sprint(mapdiff.MarkerLeft) + " " + d.Left}
	case mapdiff.RightOnly:
		return []string{s.right.Sprint(mapdiff.MarkerRight) + " " + d.Right}
	case mapdiff.Changed:
		return []string{
			s.changed.Sprint(mapdiff.MarkerChangedLeft) + " " + d.Left,
			s.changed.Sprint(mapdiff.MarkerChangedRight) + " " + d.Right,
		}
	default:
		return d.Lines()
	}
}

func newMapdiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapdiff LEFT RIGHT",
		Short: "Diff two files by key",
		Long: `Diff two files by a key column.

Every key must be unique in its file. Keys of LEFT are printed in order,
then the keys only found in RIGHT.

  < L    only in LEFT
  > R    only in RIGHT
  <>< L  differs, LEFT line
  <>> R  differs, RIGHT line

e.g.
$ linetools mapdiff left.txt right.txt
<>< k1 apple
<>> k1 aoi
< k3 citrus
< k4 dragon fruit
> k5 citrus`,
		Args: cobra.ExactArgs(2),
		RunE: runMapdiff,
	}
	cmd.Flags().IntVarP(&mapdiffKey, "key", "k", 0, "Key column (zero origin)")
	cmd.Flags().StringVarP(&mapdiffDelimiter, "delimiter", "d", " ", "Column delimiter (one character)")
	cmd.Flags().BoolVarP(&mapdiffWithNoDiff, "with-no-diff", "w", false, "Also print lines without a diff")
	return cmd
}

func runMapdiff(cmd *cobra.Command, args []string) error {
	left, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer left.Close()
	right, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer right.Close()

	out := cmd.OutOrStdout()
	styles := newDiffStyles(colorEnabled(out))
	w := bufio.NewWriter(out)
	diffs := mapdiff.Run(left, right, mapdiff.Options{
		Key:        mapdiffKey,
		Delimiter:  mapdiffDelimiter,
		WithNoDiff: mapdiffWithNoDiff,
		Logger:     logger,
	})
	for d, err := range diffs {
		if err != nil {
			return errors.Join(err, w.Flush())
		}
		for _, line := range styles.render(d) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
