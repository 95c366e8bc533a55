// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the peptide-fetch CLI. Running it
// with no subcommand performs a full search → resolve → download pass;
// the search, resolve and fetch subcommands run individual stages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/peptide-fetch/internal/logging"
	"github.com/pdiddy/peptide-fetch/internal/manifest"
	"github.com/pdiddy/peptide-fetch/internal/pipeline"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from --log-level before any command runs.
var logger *log.Logger

// rootCmd runs the whole pipeline.
var rootCmd = &cobra.Command{
	Use:   "peptide-fetch",
	Short: "Download FASTA and PDB files for short reviewed UniProt entries",
	Long: `peptide-fetch searches UniProtKB for reviewed entries no longer than
--max-length residues, resolves each entry to PDB structures through the
PDBe best-structures mapping, and downloads the entry's FASTA sequence and
every structure file into <output-dir>/<accession>/.

Entries without structures get an empty directory. Failed downloads are
logged and skipped; reruns overwrite existing files.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(cmd.ErrOrStderr(), viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
	RunE: runPipeline,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./peptide-fetch.yaml or ~/.config/peptide-fetch/peptide-fetch.yaml)")
	pf.Int("max-length", 0, "maximum sequence length of searched entries (default 60)")
	pf.Int("size", 0, "maximum number of entries returned by the search (default 50)")
	pf.Bool("reviewed", true, "restrict the search to reviewed entries")
	pf.String("output-dir", "", "directory receiving one subdirectory per entry (default \"output\")")
	pf.String("structure-format", "", "structure file format: pdb or cif (default \"pdb\")")
	pf.Duration("timeout", 0, "HTTP request timeout (default 60s)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")

	rootCmd.Flags().String("manifest", "", "write a YAML run manifest to this path")

	bindFlag("search.max_length", pf.Lookup("max-length"))
	bindFlag("search.size", pf.Lookup("size"))
	bindFlag("search.reviewed", pf.Lookup("reviewed"))
	bindFlag("fetch.output_dir", pf.Lookup("output-dir"))
	bindFlag("fetch.structure_format", pf.Lookup("structure-format"))
	bindFlag("timeout", pf.Lookup("timeout"))
	bindFlag("log_level", pf.Lookup("log-level"))
	bindFlag("manifest", rootCmd.Flags().Lookup("manifest"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("peptide-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "peptide-fetch"))
		}
	}

	viper.SetEnvPrefix("PEPTIDE_FETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newHTTPClient(cfg.Search.Timeout)
	searcher, resolver, fetcher := newStages(client, cfg, logger)

	sum, err := pipeline.Run(cmd.Context(), searcher, resolver, fetcher, logger)
	if path := viper.GetString("manifest"); path != "" && sum != nil {
		if werr := manifest.Write(manifest.FromSummary(sum, cfg.Fetch.OutputDir), path); werr != nil {
			logger.Error("writing manifest failed", "path", path, "err", werr)
		} else {
			logger.Info("wrote manifest", "path", path)
		}
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error(err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}
