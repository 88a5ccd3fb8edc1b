package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/praetorian-inc/linetools/pkg/reversex"
	"github.com/praetorian-inc/linetools/pkg/source"
	"github.com/spf13/cobra"
)

var revxSeparator string

func newRevxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revx [TARGET...]",
		Short: "Reverse strings",
		Long: `Reverse each TARGET, or each line of standard input when none is given.

e.g.
$ linetools revx live
evil
$ linetools revx java.lang.Object -s .
Object.lang.java`,
		RunE: runRevx,
	}
	cmd.Flags().StringVarP(&revxSeparator, "separator", "s", "", "Field separator; reverse fields instead of characters")
	return cmd
}

func runRevx(cmd *cobra.Command, args []string) error {
	w := bufio.NewWriter(cmd.OutOrStdout())
	if len(args) > 0 {
		for _, target := range args {
			fmt.Fprintln(w, reversex.Reverse(target, revxSeparator))
		}
		return w.Flush()
	}
	for line, err := range source.Lines(cmd.InOrStdin()) {
		if err != nil {
			return errors.Join(err, w.Flush())
		}
		fmt.Fprintln(w, reversex.Reverse(line, revxSeparator))
	}
	return w.Flush()
}
