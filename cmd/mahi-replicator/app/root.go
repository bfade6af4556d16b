// Package app provides the entry point for the mahi-replicator
// command-line application.
package app

import (
	"github.com/spf13/cobra"

	"github.com/TritonDataCenter/mahi-sub003/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:               "mahi-replicator",
	DisableAutoGenTag: true,
	Short:             "Replicate a directory changelog into a KV authentication projection",
	Long: `mahi-replicator tails an LDAP-style directory changelog and projects each
entry into the denormalized key/value shape downstream auth services read
(spec.md §1-§4). It also exposes the STS session-token signer/verifier as
a standalone CLI surface for operational testing.`,
}

// NewRootCmd creates a new root command for the mahi-replicator CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the replicator config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			logger.InitializeDevelopment()
		}
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tokenCmd)

	return rootCmd
}
