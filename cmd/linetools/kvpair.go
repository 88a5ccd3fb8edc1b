package main

import (
	"github.com/praetorian-inc/linetools/pkg/kvpair"
	"github.com/praetorian-inc/linetools/pkg/source"
	"github.com/spf13/cobra"
)

var kvpairFormat string

func newKvpairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kvpair",
		Short: "Extract key=value pairs from standard input",
		Long: `Split each line of standard input on spaces and print its key=value tokens
as one record. A later key overwrites an earlier one.

e.g.
$ echo 'ts=1 level=info msg=started' | linetools kvpair
{"level":"info","msg":"started","ts":"1"}`,
		Args: cobra.NoArgs,
		RunE: runKvpair,
	}
	cmd.Flags().StringVarP(&kvpairFormat, "format", "f", kvpair.FormatJSON, "Output format: json, yaml, table")
	return cmd
}

func runKvpair(cmd *cobra.Command, _ []string) error {
	return kvpair.Run(source.Lines(cmd.InOrStdin()), cmd.OutOrStdout(), kvpairFormat)
}
