// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Defaults applied when a config value is left at its zero value.
const (
	DefaultMaxLength       = 60
	DefaultResultSize      = 50
	DefaultOutputDir       = "output"
	DefaultStructureFormat = FormatPDB
	DefaultTimeout         = 60 * time.Second
	DefaultUserAgent       = "peptide-fetch/0.1"
)

// HTTPConfig holds shared HTTP settings used by every stage that makes
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the entry search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxLength is the inclusive upper bound on sequence length (default 60).
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length"`

	// ResultSize caps the number of identifiers returned (default 50).
	ResultSize int `json:"size" yaml:"size" mapstructure:"size"`

	// IncludeUnreviewed drops the reviewed:true clause so unreviewed
	// (TrEMBL) entries match too. The zero value searches reviewed
	// entries only.
	IncludeUnreviewed bool `json:"include_unreviewed" yaml:"include_unreviewed" mapstructure:"include_unreviewed"`
}

// ResolveConfig holds settings for the structure resolver stage.
type ResolveConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`
}

// StructureFormat selects the file format requested from the structure
// download endpoint.
type StructureFormat string

const (
	FormatPDB   StructureFormat = "pdb"
	FormatMMCIF StructureFormat = "cif"
)

// Valid reports whether f is a supported structure format.
func (f StructureFormat) Valid() bool {
	return f == FormatPDB || f == FormatMMCIF
}

// FetchConfig holds settings for the file fetcher stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// OutputDir is the root directory; one subdirectory is created per entry.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// StructureFormat is the structure file extension (default "pdb").
	StructureFormat StructureFormat `json:"structure_format" yaml:"structure_format" mapstructure:"structure_format"`
}

// PipelineConfig groups all stage configurations for a run.
type PipelineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Resolve ResolveConfig `json:"resolve" yaml:"resolve"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
}

// DefaultPipelineConfig returns a PipelineConfig populated with the
// documented defaults: reviewed entries up to 60 residues, 50 results,
// PDB-format structures written under ./output.
func DefaultPipelineConfig() PipelineConfig {
	h := HTTPConfig{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent}
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: h,
			MaxLength:  DefaultMaxLength,
			ResultSize: DefaultResultSize,
		},
		Resolve: ResolveConfig{HTTPConfig: h},
		Fetch: FetchConfig{
			HTTPConfig:      h,
			OutputDir:       DefaultOutputDir,
			StructureFormat: DefaultStructureFormat,
		},
	}
}
