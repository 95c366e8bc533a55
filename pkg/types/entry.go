// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the peptide-fetch
// pipeline: stage configuration and per-entry download outcomes.
package types

// EntryStatus summarizes what happened to one entry during a run.
type EntryStatus string

const (
	// StatusSkipped means no structure identifiers were resolved, so
	// nothing was downloaded.
	StatusSkipped EntryStatus = "skipped"
	// StatusComplete means every download for the entry succeeded.
	StatusComplete EntryStatus = "complete"
	// StatusPartial means the entry resolved but at least one download failed.
	StatusPartial EntryStatus = "partial"
)

// EntryResult records the outcome of fetching one UniProt entry.
type EntryResult struct {
	// ID is the UniProt accession.
	ID string `json:"id" yaml:"id"`

	// Dir is the per-entry output directory.
	Dir string `json:"dir" yaml:"dir"`

	// ModelIDs lists the PDB identifiers resolved for the entry, in
	// mapping order.
	ModelIDs []string `json:"model_ids" yaml:"model_ids"`

	// Files lists the paths written for the entry.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	// Failed lists the URLs that could not be downloaded.
	Failed []string `json:"failed,omitempty" yaml:"failed,omitempty"`

	Status EntryStatus `json:"status" yaml:"status"`
}

// BatchResult holds the outcome of a fetch loop over many entries.
type BatchResult struct {
	Complete int           `json:"complete" yaml:"complete"`
	Partial  int           `json:"partial" yaml:"partial"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Entries  []EntryResult `json:"entries" yaml:"entries"`
}

// Total returns the number of entries processed.
func (r BatchResult) Total() int {
	return r.Complete + r.Partial + r.Skipped
}

// Add records an entry result and updates the per-status counts.
func (r *BatchResult) Add(e EntryResult) {
	switch e.Status {
	case StatusComplete:
		r.Complete++
	case StatusPartial:
		r.Partial++
	default:
		r.Skipped++
	}
	r.Entries = append(r.Entries, e)
}
