// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the FASTA sequence and structure files for each
// UniProt entry into its own directory, and drives the per-entry
// resolve-then-fetch loop.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pdiddy/peptide-fetch/internal/httputil"
	"github.com/pdiddy/peptide-fetch/internal/logging"
	"github.com/pdiddy/peptide-fetch/pkg/types"
)

// Base URLs for downloads. Declared as vars so tests can substitute
// httptest servers.
var (
	uniprotFASTABase = "https://rest.uniprot.org/uniprotkb/"
	rcsbDownloadBase = "https://files.rcsb.org/download/"
)

const sequenceExt = "fasta"

// Resolver maps an accession to structure identifiers.
type Resolver interface {
	Resolve(ctx context.Context, id string) ([]string, error)
}

// Fetcher writes downloaded files under Config.OutputDir.
type Fetcher struct {
	HTTP   *http.Client
	Config types.FetchConfig
	Logger logging.Logger
}

// SequenceURL returns the FASTA download URL for an accession.
func SequenceURL(id string) string {
	return uniprotFASTABase + url.PathEscape(id) + "." + sequenceExt
}

// StructureURL returns the structure download URL for a PDB id.
func StructureURL(modelID string, format types.StructureFormat) string {
	return rcsbDownloadBase + url.PathEscape(modelID) + "." + string(format)
}

// EntryDir returns the output directory for an accession.
func (f *Fetcher) EntryDir(id string) string {
	return filepath.Join(f.outputDir(), id)
}

// PrepareEntry creates the output root and the entry's directory. Both
// calls are idempotent.
func (f *Fetcher) PrepareEntry(id string) (string, error) {
	root := f.outputDir()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", root, err)
	}
	dir := f.EntryDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return dir, nil
}

// FetchAndSave creates the entry directory, then downloads the FASTA
// sequence and one structure file per model id into it. A failed download
// is logged and recorded in the result; the remaining files are still
// attempted. When modelIDs is empty the directory is created but nothing
// is downloaded. Filesystem failures and context cancellation are
// returned as errors.
func (f *Fetcher) FetchAndSave(ctx context.Context, id string, modelIDs []string) (*types.EntryResult, error) {
	dir, err := f.PrepareEntry(id)
	if err != nil {
		return nil, err
	}

	result := &types.EntryResult{
		ID:       id,
		Dir:      dir,
		ModelIDs: modelIDs,
		Status:   types.StatusSkipped,
	}
	if len(modelIDs) == 0 {
		f.Logger.Info("skipped entry, no PDB entries found", "id", id)
		return result, nil
	}

	seqPath := filepath.Join(dir, id+"."+sequenceExt)
	ok, err := f.download(ctx, SequenceURL(id), seqPath, result)
	if err != nil {
		return nil, err
	}
	if ok {
		f.Logger.Info("downloaded FASTA", "id", id)
	}

	format := f.format()
	seen := make(map[string]bool, len(modelIDs))
	for _, modelID := range modelIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if seen[modelID] {
			continue
		}
		seen[modelID] = true

		path := filepath.Join(dir, modelID+"."+string(format))
		ok, err := f.download(ctx, StructureURL(modelID, format), path, result)
		if err != nil {
			return nil, err
		}
		if ok {
			f.Logger.Info("downloaded structure", "id", id, "pdb_id", modelID, "format", format)
		}
	}

	if len(result.Failed) > 0 {
		result.Status = types.StatusPartial
	} else {
		result.Status = types.StatusComplete
	}
	return result, nil
}

// FetchAll processes accessions in order: it prepares each entry's
// directory, resolves its structures and downloads them. Resolver errors
// are logged and treated as no structures. A filesystem error stops the
// loop and is returned with the results gathered so far, as is a
// cancelled context; no directory is created once ctx is done.
func (f *Fetcher) FetchAll(ctx context.Context, ids []string, resolver Resolver) (types.BatchResult, error) {
	var batch types.BatchResult
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		if _, err := f.PrepareEntry(id); err != nil {
			return batch, err
		}

		modelIDs, err := resolver.Resolve(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return batch, ctx.Err()
			}
			f.Logger.Warn("resolving PDB ids failed", "id", id, "err", err)
			modelIDs = nil
		}

		entry, err := f.FetchAndSave(ctx, id, modelIDs)
		if err != nil {
			return batch, fmt.Errorf("fetching %s: %w", id, err)
		}
		batch.Add(*entry)
	}
	f.Logger.Info("batch summary",
		"complete", batch.Complete, "partial", batch.Partial,
		"skipped", batch.Skipped, "total", batch.Total())
	return batch, nil
}

// download fetches rawURL into destPath. A non-200 status or transport
// failure is logged, recorded in result.Failed and reported as ok=false
// with a nil error; a filesystem failure or a cancelled ctx is returned
// as an error.
func (f *Fetcher) download(ctx context.Context, rawURL, destPath string, result *types.EntryResult) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	resp, err := httputil.Get(ctx, f.HTTP, rawURL, f.Config.UserAgent)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		f.Logger.Warn("download failed", "id", result.ID, "url", rawURL, "err", err)
		result.Failed = append(result.Failed, rawURL)
		return false, nil
	}
	if !resp.OK() {
		f.Logger.Warn("download failed", "id", result.ID, "url", rawURL, "status", resp.StatusCode)
		result.Failed = append(result.Failed, rawURL)
		return false, nil
	}

	if err := writeFile(destPath, resp.Body); err != nil {
		return false, err
	}
	result.Files = append(result.Files, destPath)
	return true, nil
}

// writeFile writes data to destPath through a temporary file in the same
// directory and renames it into place, replacing any existing file.
func writeFile(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", destPath, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", destPath, err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (f *Fetcher) outputDir() string {
	if f.Config.OutputDir == "" {
		return types.DefaultOutputDir
	}
	return f.Config.OutputDir
}

func (f *Fetcher) format() types.StructureFormat {
	if f.Config.StructureFormat == "" {
		return types.DefaultStructureFormat
	}
	return f.Config.StructureFormat
}
