package render

import (
	"fmt"
	"io"

	"github.com/komsit37/screen/pkg/screen/batch"
)

// Renderer writes a screening partition to w.
type Renderer interface {
	Render(w io.Writer, p batch.Partition, opts RenderOptions) error
}

type RenderOptions struct {
	Columns     []string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int

	// QualifiedOnly hides the not-qualified section.
	QualifiedOnly bool
}

// New returns the renderer for format: table, json or syms.
func New(format string) (Renderer, error) {
	switch format {
	case "", "table":
		return NewTableRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "syms":
		return NewSymsRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want table, json or syms)", format)
	}
}
