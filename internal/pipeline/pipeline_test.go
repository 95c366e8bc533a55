// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/peptide-fetch/internal/fetch"
	"github.com/pdiddy/peptide-fetch/internal/resolve"
	"github.com/pdiddy/peptide-fetch/internal/search"
	"github.com/pdiddy/peptide-fetch/pkg/types"
)

type stubSearcher struct {
	ids []string
	err error
}

func (s stubSearcher) Search(context.Context) ([]string, error) { return s.ids, s.err }
func (s stubSearcher) Query() string                            { return "length:[1 TO 60] AND reviewed:true" }

type stubResolver map[string][]string

func (r stubResolver) Resolve(_ context.Context, id string) ([]string, error) { return r[id], nil }

// recordingFetcher captures the ids it was asked to process.
type recordingFetcher struct {
	calls [][]string
	err   error
}

func (f *recordingFetcher) FetchAll(_ context.Context, ids []string, _ fetch.Resolver) (types.BatchResult, error) {
	f.calls = append(f.calls, ids)
	var b types.BatchResult
	for _, id := range ids {
		b.Add(types.EntryResult{ID: id, Status: types.StatusComplete})
	}
	return b, f.err
}

func TestRun_PassesSearchResultsInOrder(t *testing.T) {
	var buf bytes.Buffer
	f := &recordingFetcher{}

	sum, err := Run(context.Background(), stubSearcher{ids: []string{"P12345", "P67890"}}, stubResolver{}, f, log.New(&buf))
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	assert.Equal(t, []string{"P12345", "P67890"}, f.calls[0])
	assert.Equal(t, 2, sum.Found)
	assert.Equal(t, 2, sum.Batch.Complete)
	assert.NotEqual(t, uuid.Nil, sum.RunID)
	assert.Equal(t, "length:[1 TO 60] AND reviewed:true", sum.Query)
	assert.False(t, sum.FinishedAt.Before(sum.StartedAt))
	assert.Contains(t, buf.String(), "found UniProt entries")
	assert.Contains(t, buf.String(), "count=2")
}

func TestRun_EmptySearchIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	f := &recordingFetcher{}

	sum, err := Run(context.Background(), stubSearcher{ids: []string{}}, stubResolver{}, f, log.New(&buf))
	require.NoError(t, err)

	assert.Zero(t, sum.Found)
	assert.Zero(t, sum.Batch.Total())
	require.Len(t, f.calls, 1)
	assert.Empty(t, f.calls[0])
}

func TestRun_SearchErrorStopsBeforeFetch(t *testing.T) {
	var buf bytes.Buffer
	f := &recordingFetcher{}

	_, err := Run(context.Background(), stubSearcher{err: errors.New("dial tcp: refused")}, stubResolver{}, f, log.New(&buf))
	assert.Error(t, err)
	assert.Empty(t, f.calls)
}

func TestRun_FetchErrorReturnedWithPartialSummary(t *testing.T) {
	var buf bytes.Buffer
	f := &recordingFetcher{err: errors.New("creating directory output: read-only file system")}

	sum, err := Run(context.Background(), stubSearcher{ids: []string{"P12345"}}, stubResolver{}, f, log.New(&buf))
	assert.Error(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 1, sum.Batch.Total())
}

func TestRun_WithFetcherAndNoStructures(t *testing.T) {
	var buf bytes.Buffer
	out := filepath.Join(t.TempDir(), "output")
	f := &fetch.Fetcher{
		Config: types.FetchConfig{OutputDir: out},
		Logger: log.New(&buf),
	}

	sum, err := Run(context.Background(), stubSearcher{ids: []string{"P12345", "P67890"}}, stubResolver{}, f, log.New(&buf))
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Batch.Skipped)
	assert.DirExists(t, filepath.Join(out, "P12345"))
	assert.DirExists(t, filepath.Join(out, "P67890"))
}

// rewriteTransport sends every request to target, whatever host the
// stage built its URL for, keeping the path and query.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	req.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// upstream stands in for UniProt, PDBe and RCSB at once and records the
// path of every request.
type upstream struct {
	mu    sync.Mutex
	paths []string
}

func (u *upstream) Paths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.paths...)
}

func newUpstream(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*upstream, *http.Client) {
	t.Helper()
	u := &upstream{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.paths = append(u.paths, r.URL.Path)
		u.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	target, err := url.Parse(ts.URL)
	require.NoError(t, err)
	return u, &http.Client{Transport: rewriteTransport{target: target}}
}

func realStages(client *http.Client, out string, buf *bytes.Buffer) (*search.Client, *resolve.Client, *fetch.Fetcher) {
	cfg := types.DefaultPipelineConfig()
	cfg.Fetch.OutputDir = out
	logger := log.New(buf)
	return &search.Client{HTTP: client, Config: cfg.Search, Logger: logger},
		&resolve.Client{HTTP: client, Config: cfg.Resolve, Logger: logger},
		&fetch.Fetcher{HTTP: client, Config: cfg.Fetch, Logger: logger}
}

func TestRun_SearchUnavailableDownloadsNothing(t *testing.T) {
	u, client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/uniprotkb/search" {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, "maintenance")
			return
		}
		fmt.Fprint(w, "unexpected")
	})
	out := filepath.Join(t.TempDir(), "output")
	var buf bytes.Buffer
	s, r, f := realStages(client, out, &buf)

	sum, err := Run(context.Background(), s, r, f, log.New(&buf))
	require.NoError(t, err)

	assert.Zero(t, sum.Found)
	assert.Zero(t, sum.Batch.Total())
	assert.Equal(t, []string{"/uniprotkb/search"}, u.Paths())
	assert.Contains(t, buf.String(), "status=503")

	_, statErr := os.Stat(out)
	if statErr == nil {
		entries, err := os.ReadDir(out)
		require.NoError(t, err)
		assert.Empty(t, entries)
	} else {
		assert.True(t, os.IsNotExist(statErr), statErr)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	u, client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/uniprotkb/search":
			fmt.Fprint(w, "P01542\nP00000\n")
		case "/pdbe/api/mappings/best_structures/P01542":
			fmt.Fprint(w, `{"P01542":[{"pdb_id":"1crn","chain_id":"A"}]}`)
		case "/uniprotkb/P01542.fasta":
			fmt.Fprint(w, ">sp|P01542|CRAM_CRAAB Crambin\nTTCCPSIVARSNFNVCRLPGTPEAICATYTGCIIIPGATCPGDYAN\n")
		case "/download/1crn.pdb":
			fmt.Fprint(w, "HEADER    PLANT PROTEIN\nEND\n")
		default:
			http.NotFound(w, r)
		}
	})
	out := filepath.Join(t.TempDir(), "output")
	var buf bytes.Buffer
	s, r, f := realStages(client, out, &buf)

	sum, err := Run(context.Background(), s, r, f, log.New(&buf))
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Found)
	assert.Equal(t, 1, sum.Batch.Complete)
	assert.Equal(t, 1, sum.Batch.Skipped)
	assert.FileExists(t, filepath.Join(out, "P01542", "P01542.fasta"))
	assert.FileExists(t, filepath.Join(out, "P01542", "1crn.pdb"))
	assert.DirExists(t, filepath.Join(out, "P00000"))
	assert.NotContains(t, u.Paths(), "/uniprotkb/P00000.fasta")
}
