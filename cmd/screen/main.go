package main

import (
	"os"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	format      string
	columns     []string
	filter      string
	limit       int
	workers     int
	outDir      string
	noColor     bool
	maxColWidth int
	pretty      bool
	qualified   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "screen",
		Short:         "Screen stocks against value-investing rules using Finnhub data",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ./screen.yaml or $HOME/.config/screen/screen.yaml)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "", "log format: text or json")
	pf.StringVarP(&g.format, "format", "f", "", "output format: table, json or syms")
	pf.StringSliceVarP(&g.columns, "columns", "c", nil, "columns or column sets to show (sets: default, rules, profile, gate)")
	pf.StringVar(&g.filter, "filter", "", "symbol filter: exact list A,B; glob A*; /regex/; substring; prefix ! to negate")
	pf.IntVar(&g.limit, "limit", 0, "screen at most this many symbols after filtering")
	pf.IntVar(&g.workers, "workers", 0, "concurrent symbols (default max_api_calls_per_minute/4)")
	pf.StringVar(&g.outDir, "out", "", "also write qualified.json and not_qualified.json to this directory")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored table output")
	pf.IntVar(&g.maxColWidth, "max-col-width", 0, "wrap table columns wider than this (default from terminal width)")
	pf.BoolVar(&g.pretty, "pretty", false, "indent JSON output")
	pf.BoolVar(&g.qualified, "qualified-only", false, "hide symbols that did not qualify")

	root.AddCommand(
		newRunCmd(&g),
		newCheckCmd(&g),
		newSymbolsCmd(&g),
		newConfigCmd(&g),
		newCacheCmd(&g),
	)
	return root
}
