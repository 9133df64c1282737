package source

import (
	"context"

	"github.com/komsit37/screen/pkg/screen/types"
)

// Source produces the symbols to screen.
type Source interface {
	Load(ctx context.Context) ([]types.StockInfo, error)
}
