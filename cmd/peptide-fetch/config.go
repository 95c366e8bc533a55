package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/peptide-fetch/internal/fetch"
	"github.com/pdiddy/peptide-fetch/internal/logging"
	"github.com/pdiddy/peptide-fetch/internal/resolve"
	"github.com/pdiddy/peptide-fetch/internal/search"
	"github.com/pdiddy/peptide-fetch/pkg/types"
)

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", key, err))
	}
}

// loadConfig overlays viper settings (flags, PEPTIDE_FETCH_* env, config
// file) on the documented defaults. Zero values keep the default.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()

	hc := cfg.Search.HTTPConfig
	if d := viper.GetDuration("timeout"); d > 0 {
		hc.Timeout = d
	}
	if ua := viper.GetString("user_agent"); ua != "" {
		hc.UserAgent = ua
	} else if version != "dev" {
		hc.UserAgent = "peptide-fetch/" + version
	}
	cfg.Search.HTTPConfig = hc
	cfg.Resolve.HTTPConfig = hc
	cfg.Fetch.HTTPConfig = hc

	if n := viper.GetInt("search.max_length"); n != 0 {
		if n < 0 {
			return cfg, fmt.Errorf("max length must be positive, got %d", n)
		}
		cfg.Search.MaxLength = n
	}
	if n := viper.GetInt("search.size"); n != 0 {
		if n < 0 {
			return cfg, fmt.Errorf("size must be positive, got %d", n)
		}
		cfg.Search.ResultSize = n
	}
	if viper.IsSet("search.reviewed") {
		cfg.Search.IncludeUnreviewed = !viper.GetBool("search.reviewed")
	}

	if dir := viper.GetString("fetch.output_dir"); dir != "" {
		cfg.Fetch.OutputDir = dir
	}
	if f := viper.GetString("fetch.structure_format"); f != "" {
		format := types.StructureFormat(f)
		if !format.Valid() {
			return cfg, fmt.Errorf("unsupported structure format %q (want pdb or cif)", f)
		}
		cfg.Fetch.StructureFormat = format
	}
	return cfg, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// newStages wires the three pipeline stages to one HTTP client and logger.
func newStages(client *http.Client, cfg types.PipelineConfig, logger logging.Logger) (*search.Client, *resolve.Client, *fetch.Fetcher) {
	return &search.Client{HTTP: client, Config: cfg.Search, Logger: logger},
		&resolve.Client{HTTP: client, Config: cfg.Resolve, Logger: logger},
		&fetch.Fetcher{HTTP: client, Config: cfg.Fetch, Logger: logger}
}
