package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/praetorian-inc/linetools/pkg/join"
	"github.com/praetorian-inc/linetools/pkg/source"
	"github.com/spf13/cobra"
)

var (
	joinKey    string
	joinTarget string
)

func newJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join -k KEY -t TARGET [FILE | FILE FILE...]",
		Short: "Join files on column equality",
		Long: `Join delimited files on column equality and print the selected columns.

A location is "source.column", both one-based. With a single FILE, standard
input is source 1 and FILE is source 2. "-" names standard input.

Join key: comma separated relations "s.c=s.c", e.g. 1.1=2.1,2.3=3.1
Target:   comma separated ranges
  s.c      one column
  s.c-     column c to the end of source s
  -s.c     columns 1 to c of source s
  s.c-t.d  from s.c to t.d, across sources

e.g.
$ linetools join -k 1.1=2.1 -t 1.2,2.2 users.csv roles.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runJoin,
	}
	cmd.Flags().StringP("delimiter", "d", ",", "Column delimiter (one character)")
	cmd.Flags().StringVarP(&joinKey, "key", "k", "", "Join key, e.g. 1.1=2.1")
	cmd.Flags().StringVarP(&joinTarget, "target", "t", "", "Output columns, e.g. 1.2,2.1-")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func runJoin(cmd *cobra.Command, args []string) (err error) {
	set, err := source.Open(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, set.Close())
	}()

	runner, err := join.New(join.Config{
		Sources:   set.Readers(),
		Delimiter: cfg.Delimiter,
		JoinKey:   joinKey,
		Target:    joinTarget,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	n := 0
	for line, err := range runner.Run() {
		if err != nil {
			return errors.Join(err, w.Flush())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		n++
	}
	logger.Debug("join done", "sources", set.Len(), "rows", n)
	return w.Flush()
}
