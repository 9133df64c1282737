package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/komsit37/screen/pkg/screen/cache"
)

func newCacheCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			c := a.cfg.Cache
			store := cache.New(c.Dir, c.TTL, true)
			if !store.Enabled() {
				return fmt.Errorf("cache.dir and cache.ttl must be set")
			}
			n, err := store.Purge()
			if err != nil {
				return err
			}
			a.log.WithField("dir", c.Dir).Infof("purged %d expired entries", n)
			return nil
		},
	})
	return cmd
}
