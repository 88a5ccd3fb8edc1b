package main

import (
	"bufio"
	"errors"

	"github.com/praetorian-inc/linetools/pkg/csvcut"
	"github.com/spf13/cobra"
)

var (
	csvcutFields          string
	csvcutHeaders         string
	csvcutHeadersIncluded bool
	csvcutJSON            bool
)

func newCsvcutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csvcut -f FIELDS",
		Short: "Select columns from CSV on standard input",
		Long: `Select columns from CSV read on standard input.

Fields: comma separated ranges of one-based columns
  c      one column
  c-     column c to the end
  -c     columns 1 to c
  c-d    columns c to d

e.g.
$ printf '1,cmd,cronseq\n2,revx\n3,mapdiff,diff,md\n' | linetools csvcut -f '1,3-'
1,cronseq
2
3,diff,md`,
		Args: cobra.NoArgs,
		RunE: runCsvcut,
	}
	cmd.Flags().StringVarP(&csvcutFields, "field", "f", "", "Columns to select, e.g. 1-3,5")
	cmd.Flags().StringP("delimiter", "d", ",", "Output delimiter (one character)")
	cmd.Flags().StringVarP(&csvcutHeaders, "headers", "l", "", "Output headers, e.g. h1,h2,h3")
	cmd.Flags().BoolVarP(&csvcutHeadersIncluded, "headers-included", "i", false, "Use the first row as headers")
	cmd.Flags().BoolVarP(&csvcutJSON, "json", "j", false, "Print rows as JSON")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func runCsvcut(cmd *cobra.Command, _ []string) error {
	w := bufio.NewWriter(cmd.OutOrStdout())
	err := csvcut.Run(cmd.InOrStdin(), w, csvcut.Options{
		Fields:          csvcutFields,
		Delimiter:       cfg.Delimiter,
		Headers:         csvcutHeaders,
		HeadersIncluded: csvcutHeadersIncluded,
		JSON:            csvcutJSON,
		Logger:          logger,
	})
	return errors.Join(err, w.Flush())
}
