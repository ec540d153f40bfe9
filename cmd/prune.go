package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modhost/logger"
)

// pruneCmd represents the prune command
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Applies the dev-release retention policy and sweeps orphan versions",
	Long: `Walks every project and removes dev-channel versions beyond the
retention window, then deletes versions that never received a primary
file (residue of interrupted uploads).`,
	Run: func(cmd *cobra.Command, args []string) {
		orphanAge, _ := cmd.Flags().GetDuration("orphan-age")
		runPrune(orphanAge)
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().Duration("orphan-age", 24*time.Hour, "Minimum age before a version without a primary file is swept")
}

func runPrune(orphanAge time.Duration) {
	_, _, svc := bootstrap(".")

	pruned, err := svc.PruneAll()
	if err != nil {
		logger.Log.Fatalw("Retention prune failed", zap.Error(err))
	}

	swept, err := svc.SweepOrphans(orphanAge)
	if err != nil {
		logger.Log.Fatalw("Orphan sweep failed", zap.Error(err))
	}

	logger.Log.Infof("Finished. Pruned %d dev versions, swept %d orphan versions.", pruned, swept)
}
