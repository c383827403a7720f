// Package cmd provides the command-line interface for cachesim.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "cachesim",
	Short: "Cachesim replays memory traces through set-associative cache " +
		"models and reports hit/miss statistics.",
	Long: `Cachesim replays memory traces through set-associative, ` +
		`LRU-replaced cache models. It reports per-level hit/miss ` +
		`statistics and dumps ledgers of the backing-memory traffic the ` +
		`trace would have generated.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
