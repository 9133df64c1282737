package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/screen/pkg/screen/batch"
	"github.com/komsit37/screen/pkg/screen/filter"
	"github.com/komsit37/screen/pkg/screen/render"
	"github.com/komsit37/screen/pkg/screen/source"
	"github.com/komsit37/screen/pkg/screen/types"
)

// Screener runs a batch of symbols. *batch.Screener satisfies it.
type Screener interface {
	Run(ctx context.Context, stocks []types.StockInfo) (batch.Partition, error)
}

type Runner struct {
	Source   source.Source
	Screener Screener
	Renderer render.Renderer
	Writer   io.Writer
	Log      logrus.FieldLogger
}

type ExecuteOptions struct {
	Columns     []string
	Filter      filter.Filter
	Limit       int
	Color       bool
	PrettyJSON  bool
	MaxColWidth int

	QualifiedOnly bool

	// OutDir, when set, also receives qualified.json and not_qualified.json.
	OutDir string
}

// Execute loads, filters and screens the symbols, then renders the result.
// A canceled run still renders whatever finished and returns the context error.
func (r *Runner) Execute(ctx context.Context, opts ExecuteOptions) (batch.Partition, error) {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	stocks, err := r.Source.Load(ctx)
	if err != nil {
		return batch.Partition{}, fmt.Errorf("load symbols: %w", err)
	}
	loaded := len(stocks)

	var filt filter.Filter = filter.Always(true)
	if opts.Filter != nil {
		filt = opts.Filter
	}
	stocks = filter.Apply(filt, stocks)
	if opts.Limit > 0 && len(stocks) > opts.Limit {
		stocks = stocks[:opts.Limit]
	}
	log.WithFields(logrus.Fields{"loaded": loaded, "selected": len(stocks)}).Info("symbols loaded")

	p, runErr := r.Screener.Run(ctx, stocks)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return p, runErr
	}

	err = r.Renderer.Render(r.Writer, p, render.RenderOptions{
		Columns:       opts.Columns,
		Color:         opts.Color,
		PrettyJSON:    opts.PrettyJSON,
		MaxColWidth:   opts.MaxColWidth,
		QualifiedOnly: opts.QualifiedOnly,
	})
	if err != nil {
		return p, err
	}
	if opts.OutDir != "" {
		if err := render.WriteFiles(opts.OutDir, p); err != nil {
			return p, err
		}
		log.WithField("dir", opts.OutDir).Info("result files written")
	}
	return p, runErr
}
