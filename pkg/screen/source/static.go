package source

import (
	"context"
	"strings"

	"github.com/komsit37/screen/pkg/screen/types"
)

// StaticSource yields a fixed list of symbols, e.g. from the command line.
// Entries may be comma separated; blanks are dropped and symbols upper-cased.
type StaticSource struct {
	Symbols  []string
	Exchange string
}

func (s StaticSource) Load(context.Context) ([]types.StockInfo, error) {
	var out []types.StockInfo
	for _, arg := range s.Symbols {
		for _, sym := range strings.Split(arg, ",") {
			sym = strings.ToUpper(strings.TrimSpace(sym))
			if sym == "" {
				continue
			}
			out = append(out, types.StockInfo{Symbol: sym, Exchange: s.Exchange})
		}
	}
	return out, nil
}
