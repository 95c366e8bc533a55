package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List UniProt accessions matching the length and review filters",
	Long: `Search queries UniProtKB once for entries with length in [1, --max-length]
(reviewed only unless --reviewed=false) and prints at most --size
accessions, one per line, in the order the service returned them.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	searcher, _, _ := newStages(newHTTPClient(cfg.Search.Timeout), cfg, logger)

	ids, err := searcher.Search(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("found UniProt entries", "count", len(ids))
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
