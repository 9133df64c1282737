package filter

import (
	"testing"

	"github.com/komsit37/screen/pkg/screen/types"
)

var universe = []types.StockInfo{
	{Symbol: "AAPL", Description: "APPLE INC"},
	{Symbol: "BRK.B", Description: "BERKSHIRE HATHAWAY INC-CL B"},
	{Symbol: "JPM", Description: "JPMORGAN CHASE & CO"},
	{Symbol: "KO", Description: "COCA-COLA CO"},
}

func matched(t *testing.T, expr string) []string {
	t.Helper()
	f, err := Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	var out []string
	for _, s := range Apply(f, universe) {
		out = append(out, s.Symbol)
	}
	return out
}

func TestParse(t *testing.T) {
	cases := []struct {
		expr string
		want []string
	}{
		{"", []string{"AAPL", "BRK.B", "JPM", "KO"}},
		{"aapl, ko", []string{"AAPL", "KO"}},
		{"BRK.*", []string{"BRK.B"}},
		{"?PM", []string{"JPM"}},
		{"/CO$/", []string{"JPM", "KO"}},
		{"hathaway", []string{"BRK.B"}},
		{"ko", []string{"KO"}},
		{"!/INC/", []string{"JPM", "KO"}},
		{"!aapl,ko", []string{"BRK.B", "JPM"}},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got := matched(t, tc.expr)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{"/([/", "/a{2,1}/"} {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q) should fail", expr)
		}
	}
}
