package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modhost/logger"
	"modhost/ui"
)

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Lists all hosted projects",
	Run: func(cmd *cobra.Command, args []string) {
		listProjects()
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func listProjects() {
	_, _, svc := bootstrap(".")

	projects, err := svc.ListProjects()
	if err != nil {
		logger.Log.Fatalw("Failed to list projects", zap.Error(err))
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return
	}

	fmt.Printf("%-14s %-24s %-14s %-12s %s\n",
		ui.Header("ID"), ui.Header("SLUG"), ui.Header("TYPE"), ui.Header("VISIBILITY"), ui.Header("LOADERS"))
	for _, p := range projects {
		fmt.Printf("%-14s %-24s %-14s %-12s %s\n",
			p.ID, p.Slug, p.Type, ui.Visibility(p.Visibility), strings.Join(p.Loaders, ", "))
	}
}
