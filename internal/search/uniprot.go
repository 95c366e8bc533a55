// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries UniProtKB for short reviewed entries and returns
// their accessions in response order.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/peptide-fetch/internal/httputil"
	"github.com/pdiddy/peptide-fetch/internal/logging"
	"github.com/pdiddy/peptide-fetch/pkg/types"
)

// uniprotSearchBase is the UniProtKB search endpoint. Declared as a var so
// tests can substitute an httptest server.
var uniprotSearchBase = "https://rest.uniprot.org/uniprotkb/search"

// Client searches UniProtKB.
type Client struct {
	HTTP   *http.Client
	Config types.SearchConfig
	Logger logging.Logger
}

// BuildQuery returns the UniProt query expression selecting entries whose
// length lies in [1, maxLength], optionally restricted to reviewed entries.
func BuildQuery(maxLength int, reviewed bool) string {
	q := fmt.Sprintf("length:[1 TO %d]", maxLength)
	if reviewed {
		q += " AND reviewed:true"
	}
	return q
}

// Query returns the query expression for the client's configuration.
func (c *Client) Query() string {
	return BuildQuery(c.maxLength(), !c.Config.IncludeUnreviewed)
}

// Search issues one request to the search endpoint and returns the
// accessions it lists. A non-200 response is logged and yields an empty
// list with a nil error; only transport failures are returned as errors.
func (c *Client) Search(ctx context.Context) ([]string, error) {
	params := url.Values{
		"query":  {c.Query()},
		"format": {"list"},
		"size":   {strconv.Itoa(c.resultSize())},
	}
	reqURL := uniprotSearchBase + "?" + params.Encode()

	c.Logger.Debug("searching UniProt", "query", params.Get("query"), "size", params.Get("size"))

	resp, err := httputil.Get(ctx, c.HTTP, reqURL, c.Config.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("UniProt search request: %w", err)
	}
	if !resp.OK() {
		c.Logger.Error("failed to retrieve data from UniProt",
			"status", resp.StatusCode, "body", resp.Snippet(500))
		return []string{}, nil
	}
	return ParseList(resp.Text()), nil
}

// ParseList splits a newline-separated list response into accessions.
// Surrounding whitespace is trimmed and blank lines are dropped, so an
// empty body yields an empty list.
func ParseList(body string) []string {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Client) maxLength() int {
	if c.Config.MaxLength <= 0 {
		return types.DefaultMaxLength
	}
	return c.Config.MaxLength
}

func (c *Client) resultSize() int {
	if c.Config.ResultSize <= 0 {
		return types.DefaultResultSize
	}
	return c.Config.ResultSize
}
