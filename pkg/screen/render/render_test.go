package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/komsit37/screen/pkg/screen/batch"
	"github.com/komsit37/screen/pkg/screen/rules"
	"github.com/komsit37/screen/pkg/screen/types"
)

func partition(t *testing.T) batch.Partition {
	t.Helper()
	good := types.StockData{
		Stock: types.StockInfo{Symbol: "GOOD", Description: "GOOD CO"},
		Quote: types.CompanyQuote{Current: 6},
		Information: types.CompanyInformation{
			Name:              "Good Co",
			Industry:          "Retail",
			MarketCap:         types.Float(5000),
			SharesOutstanding: types.Float(10),
		},
		Financials: types.CompanyFinancials{
			PE:                      types.Float(10),
			PB:                      types.Float(1),
			TotalDebtToEquity:       types.Float(0.5),
			TotalCurrentAssets:      types.Float(100),
			TotalCurrentLiabilities: types.Float(40),
			CurrentLongTermDebt:     types.Float(5),
		},
	}
	v, err := rules.Evaluate(rules.DefaultAnalysis(), good)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Qualified() {
		t.Fatalf("fixture should qualify: %s", v.Reason)
	}
	return batch.NewPartition([]batch.Result{
		{
			Stock: types.StockInfo{Symbol: "BAD"},
			State: batch.StateError,
			Err:   types.NewFetchError(types.KindNetwork, types.ResourceQuote, "BAD", errors.New("connection reset")),
		},
		{Stock: good.Stock, State: batch.StateQualified, Data: &good, Verdict: &v},
	})
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableRenderer().Render(&buf, partition(t), RenderOptions{Columns: []string{"sym", "state", "kind"}})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"QUALIFIED (1)", "NOT QUALIFIED (1)", "GOOD", "BAD", "network"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color disabled but output has escape codes:\n%s", out)
	}
	if strings.Index(out, "GOOD") > strings.Index(out, "NOT QUALIFIED") {
		t.Fatalf("qualified section should come first:\n%s", out)
	}
}

func TestTableRendererQualifiedOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableRenderer().Render(&buf, partition(t), RenderOptions{QualifiedOnly: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "NOT QUALIFIED") || strings.Contains(buf.String(), "BAD") {
		t.Fatalf("not-qualified section should be hidden:\n%s", buf.String())
	}
}

func TestTableRendererUnknownColumn(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableRenderer().Render(&buf, partition(t), RenderOptions{Columns: []string{"nope"}}); err == nil {
		t.Fatal("expected an error for an unknown column")
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONRenderer().Render(&buf, partition(t), RenderOptions{Columns: []string{"pe"}, PrettyJSON: true})
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Qualified []struct {
			Symbol  string            `json:"symbol"`
			Outcome string            `json:"outcome"`
			Columns map[string]string `json:"columns"`
			Rules   []struct {
				Rule   string `json:"rule"`
				Status string `json:"status"`
			} `json:"rules"`
		} `json:"qualified"`
		NotQualified []struct {
			Symbol    string `json:"symbol"`
			State     string `json:"state"`
			ErrorKind string `json:"error_kind"`
		} `json:"not_qualified"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(got.Qualified) != 1 || got.Qualified[0].Symbol != "GOOD" || got.Qualified[0].Outcome != "qualified" {
		t.Fatalf("qualified = %+v", got.Qualified)
	}
	if got.Qualified[0].Columns["pe"] != "10.00" {
		t.Fatalf("pe column = %q", got.Qualified[0].Columns["pe"])
	}
	if r := got.Qualified[0].Rules; len(r) == 0 || r[0].Rule != "market_cap" || r[0].Status != "pass" {
		t.Fatalf("market cap gate should lead the rule list: %+v", r)
	}
	if len(got.NotQualified) != 1 || got.NotQualified[0].ErrorKind != "network" || got.NotQualified[0].State != "error" {
		t.Fatalf("not_qualified = %+v", got.NotQualified)
	}
}

func TestSymsRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewSymsRenderer().Render(&buf, partition(t), RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "GOOD\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestNew(t *testing.T) {
	for _, f := range []string{"", "table", "json", "syms"} {
		if _, err := New(f); err != nil {
			t.Errorf("New(%q): %v", f, err)
		}
	}
	if _, err := New("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := WriteFiles(dir, partition(t)); err != nil {
		t.Fatal(err)
	}
	for file, sym := range map[string]string{QualifiedFile: "GOOD", NotQualifiedFile: "BAD"} {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			t.Fatal(err)
		}
		var recs []map[string]any
		if err := json.Unmarshal(data, &recs); err != nil {
			t.Fatalf("%s: %v", file, err)
		}
		if len(recs) != 1 || recs[0]["symbol"] != sym {
			t.Fatalf("%s = %s", file, data)
		}
	}
}
