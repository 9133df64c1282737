package columns

import "sort"

const DefaultSet = "default"

// Sets defines named column groups that expand into lists of columns.
//   - "default": one line summary per symbol
//   - "rules": every rule's observed value and outcome
//   - "profile": company profile
//   - "gate": market cap gate and terminal state
var Sets = map[string][]string{
	"rules": {
		"sym",
		"pe", "pe_status",
		"div", "div5y", "divg5y", "div_status",
		"epsg", "epsg5y", "growth_status",
		"pb", "pb_limits", "pb_effective", "pb_status",
		"de", "de_status",
		"wc", "wc_status",
		"cr", "cr_status",
		"state",
	},
	DefaultSet: {"sym", "name", "industry", "price", "mcap", "pe", "pb", "de", "wc", "state", "reason"},
	"profile":  {"sym", "name", "industry", "exchange", "currency", "price", "mcap"},
	"gate":     {"sym", "mcap", "mcap_status", "state", "kind", "reason"},
}

func availableSets() []string {
	keys := make([]string, 0, len(Sets))
	for k := range Sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
