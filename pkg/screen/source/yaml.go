package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/screen/pkg/screen/types"
)

// YAMLSource loads symbols from a YAML file, or from every .yaml/.yml file
// under a directory. Accepted shapes:
//
//	symbols:
//	  - AAPL
//	  - {sym: KO, currency: USD, description: COCA-COLA CO}
//	  - name: banks
//	    symbols: [JPM, BAC]
//
// A bare top-level list is also accepted. Named groups are flattened.
type YAMLSource struct {
	Path string
}

func (s YAMLSource) Load(ctx context.Context) ([]types.StockInfo, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return loadYAMLFile(s.Path)
	}

	var files []string
	err = filepath.WalkDir(s.Path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var all []types.StockInfo
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stocks, err := loadYAMLFile(f)
		if err != nil {
			return nil, err
		}
		all = append(all, stocks...)
	}
	return all, nil
}

func loadYAMLFile(path string) ([]types.StockInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stocks, err := parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stocks, nil
}

func parseYAML(data []byte) ([]types.StockInfo, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	var node any
	switch r := root.(type) {
	case []any:
		node = r
	case map[string]any:
		v, ok := r["symbols"]
		if !ok || v == nil {
			return nil, fmt.Errorf("invalid yaml: missing 'symbols'")
		}
		node = v
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid yaml: expected a list or a map with 'symbols'")
	}

	var out []types.StockInfo
	var walk func(n any) error
	walk = func(n any) error {
		switch v := n.(type) {
		case []any:
			for _, e := range v {
				if err := walk(e); err != nil {
					return err
				}
			}
		case string:
			if sym := strings.TrimSpace(v); sym != "" {
				out = append(out, types.StockInfo{Symbol: strings.ToUpper(sym)})
			}
		case map[string]any:
			if child, ok := v["symbols"]; ok {
				return walk(child)
			}
			st, err := toStock(v)
			if err != nil {
				return err
			}
			out = append(out, st)
		default:
			return fmt.Errorf("invalid yaml: unexpected entry %v", v)
		}
		return nil
	}
	if err := walk(node); err != nil {
		return nil, err
	}
	return out, nil
}

func toStock(m map[string]any) (types.StockInfo, error) {
	str := func(key string) string {
		if v, ok := m[key]; ok && v != nil {
			return strings.TrimSpace(fmt.Sprint(v))
		}
		return ""
	}
	sym := str("sym")
	if sym == "" {
		sym = str("symbol")
	}
	if sym == "" {
		return types.StockInfo{}, fmt.Errorf("invalid yaml: entry without 'sym': %v", m)
	}
	return types.StockInfo{
		Symbol:      strings.ToUpper(sym),
		Currency:    str("currency"),
		Description: str("description"),
		Exchange:    str("exchange"),
	}, nil
}
