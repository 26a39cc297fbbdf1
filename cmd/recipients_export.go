package cmd

import (
	"context"
	"fmt"

	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	exportDirectory  string
	exportProjectID  string
	exportOutputPath string
	exportForce      bool
)

func init() {
	recipientsExportCmd.Flags().StringVar(&exportDirectory, "directory", "", "key directory to export (default: configured directory)")
	recipientsExportCmd.Flags().StringVarP(&exportProjectID, "project", "p", "", "project id for the export")
	recipientsExportCmd.Flags().StringVarP(&exportOutputPath, "out", "o", workflows.DefaultExportFilename, "output path")
	recipientsExportCmd.Flags().BoolVarP(&exportForce, "force", "f", false, "overwrite an existing export")
	_ = recipientsExportCmd.MarkFlagRequired("project")
}

var recipientsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a recipients export from a key directory",
	Long: `Lists every identity registered in a key directory and writes them as a
recipients export for encrypt to read.

Examples:
  ripenv recipients export --directory ./team-keys --project acme
  ripenv recipients export --project acme --out config/recipients.json --force`,
	Args: cobra.NoArgs,
	RunE: runRecipientsExport,
}

func runRecipientsExport(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting recipients export command")
	spinner, cleanup := startSpinner("Exporting recipients...")
	defer cleanup()

	result, err := workflows.Export(context.Background(), workflows.ExportOptions{
		Directory:  exportDirectory,
		ProjectID:  exportProjectID,
		OutputPath: exportOutputPath,
		Force:      exportForce,
	})
	if err != nil {
		return report(spinner, err)
	}

	count := len(result.Export.Recipients)
	message := ui.Done(fmt.Sprintf("Exported %d recipients for %s to %s",
		count, ui.Highlight.Sprint(result.Export.ProjectID), ui.Path.Sprint(result.OutputPath)))
	if count == 0 {
		message += "\n" + ui.Warning.Sprint("Warning:") + " The export lists no recipients, encrypt will refuse it"
	}
	spinner.FinalMSG = message
	return nil
}
