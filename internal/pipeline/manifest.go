package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest summarises a run.
type Manifest struct {
	Models    int      `json:"models"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// WriteManifest writes results as indented JSON to path.
func WriteManifest(path string, results []Result) error {
	m := Manifest{Models: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("manifest: mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}
