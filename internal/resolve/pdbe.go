// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve maps a UniProt accession to the PDB structures that
// cover it, using the PDBe best-structures mapping.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/peptide-fetch/internal/httputil"
	"github.com/pdiddy/peptide-fetch/internal/logging"
	"github.com/pdiddy/peptide-fetch/pkg/types"
)

// bestStructuresBase is the PDBe mapping endpoint. Declared as a var so
// tests can substitute an httptest server.
var bestStructuresBase = "https://www.ebi.ac.uk/pdbe/api/mappings/best_structures/"

// Mapping is one entry of a best-structures response. Only pdb_id is
// read; it is optional and a missing value leaves PDBID nil.
type Mapping struct {
	PDBID *string `json:"pdb_id"`
}

// Client resolves accessions against the PDBe API.
type Client struct {
	HTTP   *http.Client
	Config types.ResolveConfig
	Logger logging.Logger
}

// Resolve returns the PDB identifiers mapped to id, in response order.
// A 404 or any other non-200 status is logged and yields an empty list
// with a nil error. Transport and decode failures are returned.
func (c *Client) Resolve(ctx context.Context, id string) ([]string, error) {
	reqURL := bestStructuresBase + url.PathEscape(id)

	resp, err := httputil.Get(ctx, c.HTTP, reqURL, c.Config.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("PDBe mapping request for %s: %w", id, err)
	}

	switch {
	case resp.OK():
	case resp.StatusCode == http.StatusNotFound:
		c.Logger.Info("no PDB entries found", "id", id)
		return []string{}, nil
	default:
		c.Logger.Warn("failed to retrieve PDB ids",
			"id", id, "status", resp.StatusCode, "body", resp.Snippet(500))
		return []string{}, nil
	}

	ids, err := PDBIDs(resp.Body, id)
	if err != nil {
		return nil, fmt.Errorf("parsing PDBe mapping for %s: %w", id, err)
	}
	return ids, nil
}

// PDBIDs collects the pdb_id of every mapping listed under key id in a
// best-structures response body. Other top-level keys are not decoded.
// Entries without a usable pdb_id are skipped; a missing key yields an
// empty list. Only a body that is not a JSON object, or a value under id
// that is not an array, is an error.
func PDBIDs(body []byte, id string) ([]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, err
	}
	raw, ok := top[id]
	if !ok {
		return []string{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		var m Mapping
		if err := json.Unmarshal(e, &m); err != nil {
			continue
		}
		if m.PDBID != nil && *m.PDBID != "" {
			ids = append(ids, *m.PDBID)
		}
	}
	return ids, nil
}
