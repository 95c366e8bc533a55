// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a full search → resolve → download pass.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/peptide-fetch/internal/fetch"
	"github.com/pdiddy/peptide-fetch/internal/logging"
	"github.com/pdiddy/peptide-fetch/pkg/types"
)

// Searcher returns the accessions to process.
type Searcher interface {
	Search(ctx context.Context) ([]string, error)
	Query() string
}

// Fetcher drives the per-entry resolve-and-download loop.
type Fetcher interface {
	FetchAll(ctx context.Context, ids []string, resolver fetch.Resolver) (types.BatchResult, error)
}

// Summary describes one pipeline run.
type Summary struct {
	RunID      uuid.UUID         `yaml:"run_id"`
	Query      string            `yaml:"query"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	Found      int               `yaml:"found"`
	Batch      types.BatchResult `yaml:"batch"`
}

// Run searches once, logs how many accessions were found and hands them
// to the fetch loop. A search that yields nothing is a successful no-op.
// The returned Summary is populated with whatever completed, even when
// an error is returned.
func Run(ctx context.Context, s Searcher, r fetch.Resolver, f Fetcher, logger logging.Logger) (*Summary, error) {
	sum := &Summary{
		RunID:     uuid.New(),
		Query:     s.Query(),
		StartedAt: time.Now().UTC(),
	}
	defer func() { sum.FinishedAt = time.Now().UTC() }()

	ids, err := s.Search(ctx)
	if err != nil {
		return sum, err
	}
	sum.Found = len(ids)
	logger.Info("found UniProt entries", "count", len(ids), "run_id", sum.RunID)

	batch, err := f.FetchAll(ctx, ids, r)
	sum.Batch = batch
	return sum, err
}
