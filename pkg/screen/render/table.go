package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/screen/pkg/screen/batch"
	"github.com/komsit37/screen/pkg/screen/columns"
	"github.com/komsit37/screen/pkg/screen/rules"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, p batch.Partition, opts RenderOptions) error {
	cols, err := columns.Expand(opts.Columns)
	if err != nil {
		return err
	}

	sections := []struct {
		title   string
		results []batch.Result
	}{
		{"QUALIFIED", p.Qualified},
		{"NOT QUALIFIED", p.NotQualified},
	}
	if opts.QualifiedOnly {
		sections = sections[:1]
	}

	for i, sec := range sections {
		title := fmt.Sprintf("%s (%d)", sec.title, len(sec.results))
		if opts.Color {
			title = text.Bold.Sprint(title)
		}
		fmt.Fprintln(w, title)
		if len(sec.results) > 0 {
			renderTable(w, cols, sec.results, opts)
		}
		if i < len(sections)-1 {
			// blank line between tables
			fmt.Fprintln(w)
		}
	}
	return nil
}

func renderTable(w io.Writer, cols []string, results []batch.Result, opts RenderOptions) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false

	hdr := make(table.Row, len(cols))
	for i, c := range cols {
		hdr[i] = columns.Header(c)
	}
	tw.AppendHeader(hdr)

	// Wrap text to MaxColWidth (default 40), no truncation.
	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for i, c := range cols {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		if d, ok := columns.Registry[c]; ok && d.Numeric {
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	tw.SetColumnConfigs(cfgs)

	for _, res := range results {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			cell := columns.Value(c, res)
			row[i] = cell.Text
			if opts.Color {
				if colors := cellColors(cell); colors != nil {
					row[i] = colors.Sprint(cell.Text)
				}
			}
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

func cellColors(c columns.Cell) text.Colors {
	if c.Status != nil {
		switch *c.Status {
		case rules.Pass:
			return text.Colors{text.FgGreen}
		case rules.Fail:
			return text.Colors{text.FgRed}
		default:
			return text.Colors{text.FgYellow}
		}
	}
	switch c.State {
	case batch.StateQualified:
		return text.Colors{text.FgGreen}
	case batch.StateDisqualified:
		return text.Colors{text.FgRed}
	case batch.StateError:
		return text.Colors{text.FgYellow}
	}
	return nil
}
