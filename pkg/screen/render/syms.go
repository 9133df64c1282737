package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/screen/pkg/screen/batch"
)

// symsRenderer prints the qualified symbols in a single comma-separated line.
type symsRenderer struct{}

func NewSymsRenderer() Renderer {
	return symsRenderer{}
}

func (symsRenderer) Render(w io.Writer, p batch.Partition, _ RenderOptions) error {
	symbols := make([]string, 0, len(p.Qualified))
	for _, r := range p.Qualified {
		sym := strings.TrimSpace(r.Stock.Symbol)
		if sym == "" {
			continue
		}
		symbols = append(symbols, sym)
	}
	_, err := fmt.Fprintln(w, strings.Join(symbols, ","))
	return err
}
