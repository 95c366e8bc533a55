package main

import (
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <accession>...",
	Short: "Resolve and download files for the given accessions",
	Long: `Fetch skips the search stage: for each accession it creates
<output-dir>/<accession>/, resolves PDB structures, and downloads the FASTA
sequence and every structure file. Accessions without structures are
skipped after their directory is created.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, resolver, fetcher := newStages(newHTTPClient(cfg.Fetch.Timeout), cfg, logger)

	_, err = fetcher.FetchAll(cmd.Context(), args, resolver)
	return err
}
