package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <accession>...",
	Short: "Print the PDB structures mapped to UniProt accessions",
	Long: `Resolve looks up each accession in the PDBe best-structures mapping and
prints one line per accession: the accession, a tab, and the comma-separated
PDB ids (empty when none are mapped). Lookup failures are logged and
printed as an empty mapping.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, resolver, _ := newStages(newHTTPClient(cfg.Resolve.Timeout), cfg, logger)

	for _, id := range args {
		ids, err := resolver.Resolve(cmd.Context(), id)
		if err != nil {
			if cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			logger.Warn("resolving PDB ids failed", "id", id, "err", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, strings.Join(ids, ","))
	}
	return nil
}
