package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/praetorian-inc/linetools/pkg/config"
	"github.com/praetorian-inc/linetools/pkg/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile string

	// set by the root PersistentPreRunE
	cfg    *config.Config
	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linetools",
		Short: "linetools - join and compare line-oriented text files",
		Long: `linetools is a set of tools for delimited text files.

Its main command, join, joins several files on column equality and prints
the selected columns of every joined row.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err = logging.New(cmd.ErrOrStderr(), cfg.Debug, cfg.LogFormat)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text, json")
	rootCmd.PersistentFlags().String("color", config.ColorAuto, "Color output: auto, always, never")

	// Add subcommands
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newCsvcutCmd())
	rootCmd.AddCommand(newMapdiffCmd())
	rootCmd.AddCommand(newSetgrepCmd())
	rootCmd.AddCommand(newKvpairCmd())
	rootCmd.AddCommand(newRevxCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// colorEnabled resolves the color setting for output written to w.
func colorEnabled(w io.Writer) bool {
	switch cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	// auto: only for a terminal, and NO_COLOR unset
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
}
