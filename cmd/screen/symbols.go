package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/komsit37/screen/pkg/screen/filter"
	"github.com/komsit37/screen/pkg/screen/source"
	"github.com/komsit37/screen/pkg/screen/types"
)

func newSymbolsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols [EXCHANGE...]",
		Short: "List the common stocks of exchanges (default: configured exchanges)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			if err := a.connect(); err != nil {
				return err
			}
			defer a.close()

			exchanges := a.cfg.DataFetching.Exchanges
			if len(args) > 0 {
				exchanges = args
			}
			filt, err := filter.Parse(g.filter)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			stocks, err := source.ExchangeSource{Client: a.client, Exchanges: exchanges, Log: a.log}.Load(ctx)
			if err != nil {
				return err
			}
			stocks = filter.Apply(filt, stocks)
			if g.limit > 0 && len(stocks) > g.limit {
				stocks = stocks[:g.limit]
			}
			if a.cfg.Output.Format == "syms" {
				syms := make([]string, len(stocks))
				for i, s := range stocks {
					syms[i] = s.Symbol
				}
				fmt.Println(strings.Join(syms, ","))
				return nil
			}
			printSymbols(stocks, a.cfg.Output.Color)
			return nil
		},
	}
}

func printSymbols(stocks []types.StockInfo, color bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	if color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	tw.AppendHeader(table.Row{"SYM", "CCY", "DESCRIPTION", "EXCHANGE"})
	for _, s := range stocks {
		tw.AppendRow(table.Row{s.Symbol, s.Currency, s.Description, s.Exchange})
	}
	tw.Render()
}
