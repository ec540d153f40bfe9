package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modhost",
	Short: "Mod hosting platform backend",
	Long: `modhost is the backend of the mod hosting platform: it serves
the project/version API, stores uploaded files and maintains the
per-project loader and game-version aggregates.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
