package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/komsit37/screen/pkg/screen/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func syms(stocks []types.StockInfo) []string {
	out := make([]string, len(stocks))
	for i, s := range stocks {
		out[i] = s.Symbol
	}
	return out
}

func sameSyms(t *testing.T, got []types.StockInfo, want ...string) {
	t.Helper()
	g := syms(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestYAMLSourceFlattensGroups(t *testing.T) {
	path := writeFile(t, t.TempDir(), "value.yaml", `
symbols:
  - aapl
  - sym: KO
    currency: USD
    description: COCA-COLA CO
  - name: banks
    symbols:
      - JPM
      - {sym: bac, exchange: US}
`)
	stocks, err := YAMLSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sameSyms(t, stocks, "AAPL", "KO", "JPM", "BAC")
	if stocks[1].Description != "COCA-COLA CO" || stocks[1].Currency != "USD" {
		t.Fatalf("fields lost: %+v", stocks[1])
	}
	if stocks[3].Exchange != "US" {
		t.Fatalf("exchange lost: %+v", stocks[3])
	}
}

func TestYAMLSourceBareListAndDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yml", "- MSFT\n")
	writeFile(t, dir, "a/list.yaml", "symbols: [IBM]\n")
	writeFile(t, dir, "notes.txt", "ignored")

	stocks, err := YAMLSource{Path: dir}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	sameSyms(t, stocks, "IBM", "MSFT")
}

func TestYAMLSourceErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"no symbols key": "watchlist: [A]\n",
		"entry no sym":   "symbols:\n  - {currency: USD}\n",
		"scalar root":    "42\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, dir, name+".yaml", body)
			if _, err := (YAMLSource{Path: p}).Load(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestStaticSource(t *testing.T) {
	stocks, err := StaticSource{Symbols: []string{"aapl, ko", "", " msft "}, Exchange: "US"}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	sameSyms(t, stocks, "AAPL", "KO", "MSFT")
	if stocks[0].Exchange != "US" {
		t.Fatalf("exchange not set")
	}
}

type fakeLister struct {
	listings map[string][]types.StockInfo
	fail     string
	calls    []string
}

func (f *fakeLister) Symbols(_ context.Context, ex string) ([]types.StockInfo, error) {
	f.calls = append(f.calls, ex)
	if ex == f.fail {
		return nil, types.NewFetchError(types.KindStatus, types.ResourceSymbols, "", errors.New("forbidden"))
	}
	return f.listings[ex], nil
}

func TestExchangeSource(t *testing.T) {
	l := &fakeLister{listings: map[string][]types.StockInfo{
		"US": {{Symbol: "AAPL"}, {Symbol: "KO"}},
		"OL": {{Symbol: "EQNR.OL"}},
	}}
	stocks, err := ExchangeSource{Client: l, Exchanges: []string{"US", "OL"}}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	sameSyms(t, stocks, "AAPL", "KO", "EQNR.OL")
	if len(l.calls) != 2 {
		t.Fatalf("one listing call per exchange expected, got %v", l.calls)
	}
}

func TestExchangeSourceFailureFailsLoad(t *testing.T) {
	l := &fakeLister{fail: "OL"}
	_, err := ExchangeSource{Client: l, Exchanges: []string{"US", "OL"}}.Load(context.Background())
	if err == nil {
		t.Fatal("listing failure must fail the load")
	}
	if types.KindOf(err) != types.KindStatus {
		t.Fatalf("kind lost through wrapping: %v", err)
	}

	if _, err := (ExchangeSource{Client: l}).Load(context.Background()); err == nil {
		t.Fatal("no exchanges should be an error")
	}
}
