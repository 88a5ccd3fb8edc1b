package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/praetorian-inc/linetools/pkg/setgrep"
	"github.com/spf13/cobra"
)

func newSetgrepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setgrep SEED [SEED...]",
		Short: "Grep standard input by a set of strings",
		Long: `Print the lines of standard input that contain any line of the SEED files.

e.g.
$ (echo fire; echo water; echo ground) > set.txt
$ linetools setgrep set.txt <<EOS
underwater
tree
fire
sky
EOS
underwater
fire`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSetgrep,
	}
}

func runSetgrep(cmd *cobra.Command, args []string) error {
	readers := make([]io.Reader, 0, len(args))
	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		readers = append(readers, f)
	}
	seeds, err := setgrep.ReadSeeds(readers...)
	if err != nil {
		return err
	}
	m := setgrep.New(seeds)
	logger.Debug("seeds loaded", "files", len(args), "seeds", m.Len())

	w := bufio.NewWriter(cmd.OutOrStdout())
	for line, err := range m.Grep(cmd.InOrStdin()) {
		if err != nil {
			return errors.Join(err, w.Flush())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}
