package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/screen/pkg/screen/batch"
	"github.com/komsit37/screen/pkg/screen/columns"
	"github.com/komsit37/screen/pkg/screen/rules"
	"github.com/komsit37/screen/pkg/screen/types"
)

// jsonModel is the output shape for JSONRenderer.
type jsonModel struct {
	Qualified    []record `json:"qualified"`
	NotQualified []record `json:"not_qualified,omitempty"`
}

// record is the JSON form of one batch.Result.
type record struct {
	Symbol      string            `json:"symbol"`
	Description string            `json:"description,omitempty"`
	Name        string            `json:"name,omitempty"`
	Industry    string            `json:"industry,omitempty"`
	State       batch.State       `json:"state"`
	Outcome     rules.Outcome     `json:"outcome,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	ErrorKind   types.ErrorKind   `json:"error_kind,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	MarketCap   *float64          `json:"market_cap,omitempty"`
	Rules       []rules.Result    `json:"rules,omitempty"`
	Columns     map[string]string `json:"columns,omitempty"`
}

func newRecord(r batch.Result, cols []string) record {
	rec := record{
		Symbol:      r.Stock.Symbol,
		Description: r.Stock.Description,
		State:       r.State,
		Reason:      r.Reason(),
	}
	if r.Err != nil {
		rec.ErrorKind = r.Kind()
	}
	if r.Data != nil {
		rec.Name = r.Data.Information.Name
		rec.Industry = r.Data.Information.Industry
		rec.Price = types.Float(r.Data.Quote.Current)
		rec.MarketCap = r.Data.Information.MarketCap
	}
	if v := r.Verdict; v != nil {
		rec.Outcome = v.Outcome
		if v.MarketCap.Rule != "" {
			rec.Rules = append(rec.Rules, v.MarketCap)
		}
		rec.Rules = append(rec.Rules, v.Rules...)
	}
	if len(cols) > 0 {
		rec.Columns = make(map[string]string, len(cols))
		for _, c := range cols {
			rec.Columns[c] = columns.Value(c, r).Text
		}
	}
	return rec
}

func records(rs []batch.Result, cols []string) []record {
	out := make([]record, 0, len(rs))
	for _, r := range rs {
		out = append(out, newRecord(r, cols))
	}
	return out
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

// Render writes the partition as one JSON document. Explicit columns are
// added per record as rendered strings.
func (r *JSONRenderer) Render(w io.Writer, p batch.Partition, opts RenderOptions) error {
	var cols []string
	if len(opts.Columns) > 0 {
		var err error
		if cols, err = columns.Expand(opts.Columns); err != nil {
			return err
		}
	}
	out := jsonModel{Qualified: records(p.Qualified, cols)}
	if !opts.QualifiedOnly {
		out.NotQualified = records(p.NotQualified, cols)
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
