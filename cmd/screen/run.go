package main

import (
	"github.com/spf13/cobra"

	"github.com/komsit37/screen/pkg/screen/source"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run [symbols.yaml|dir]",
		Short: "Screen every common stock of the configured exchanges, or the symbols in a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			if err := a.connect(); err != nil {
				return err
			}
			defer a.close()

			var src source.Source
			if len(args) == 1 {
				src = source.YAMLSource{Path: args[0]}
			} else {
				src = source.ExchangeSource{Client: a.client, Exchanges: a.cfg.DataFetching.Exchanges, Log: a.log}
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return a.screen(ctx, g, src)
		},
	}
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check SYM [SYM...]",
		Short: "Screen the given symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			if err := a.connect(); err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return a.screen(ctx, g, source.StaticSource{Symbols: args})
		},
	}
}
