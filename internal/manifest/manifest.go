// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records a pipeline run as a flat YAML file.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/peptide-fetch/internal/pipeline"
	"github.com/pdiddy/peptide-fetch/pkg/types"
)

// Manifest is the on-disk form of a run summary.
type Manifest struct {
	RunID      string              `yaml:"run_id"`
	Query      string              `yaml:"query"`
	OutputDir  string              `yaml:"output_dir"`
	StartedAt  time.Time           `yaml:"started_at"`
	FinishedAt time.Time           `yaml:"finished_at"`
	Found      int                 `yaml:"found"`
	Complete   int                 `yaml:"complete"`
	Partial    int                 `yaml:"partial"`
	Skipped    int                 `yaml:"skipped"`
	Entries    []types.EntryResult `yaml:"entries"`
}

// FromSummary converts a run summary to a Manifest.
func FromSummary(sum *pipeline.Summary, outputDir string) *Manifest {
	return &Manifest{
		RunID:      sum.RunID.String(),
		Query:      sum.Query,
		OutputDir:  outputDir,
		StartedAt:  sum.StartedAt,
		FinishedAt: sum.FinishedAt,
		Found:      sum.Found,
		Complete:   sum.Batch.Complete,
		Partial:    sum.Batch.Partial,
		Skipped:    sum.Batch.Skipped,
		Entries:    sum.Batch.Entries,
	}
}

// Write marshals m to path, creating parent directories as needed and
// replacing any existing file.
func Write(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
