package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/komsit37/screen/pkg/screen/batch"
)

const (
	QualifiedFile    = "qualified.json"
	NotQualifiedFile = "not_qualified.json"
)

// WriteFiles writes the two halves of p to dir as JSON arrays.
func WriteFiles(dir string, p batch.Partition) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, QualifiedFile), records(p.Qualified, nil)); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, NotQualifiedFile), records(p.NotQualified, nil))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
