package cmd

import (
	"context"

	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	removeDirectory string
	removeEmail     string
)

func init() {
	recipientsRemoveCmd.Flags().StringVar(&removeDirectory, "directory", "", "key directory to remove from (default: configured directory)")
	recipientsRemoveCmd.Flags().StringVarP(&removeEmail, "email", "e", "", "email of the identity")
	_ = recipientsRemoveCmd.MarkFlagRequired("email")
}

var recipientsRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove an identity from a key directory",
	Long: `Deletes an identity's record from a key directory. The removed user keeps
access to the current .env.enc until it is exported and encrypted again.

Examples:
  ripenv recipients remove --email bob@example.com
  ripenv recipients remove --directory ./team-keys --email bob@example.com`,
	Args: cobra.NoArgs,
	RunE: runRecipientsRemove,
}

func runRecipientsRemove(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting recipients remove command")
	spinner, cleanup := startSpinner("Removing identity...")
	defer cleanup()

	result, err := workflows.Remove(context.Background(), workflows.RemoveOptions{
		Directory: removeDirectory,
		Email:     removeEmail,
	})
	if err != nil {
		return report(spinner, err)
	}

	spinner.FinalMSG = ui.Done("Removed "+ui.Highlight.Sprint(result.Email)+" "+ui.Muted.Sprint(result.Fingerprint)+" from "+ui.Path.Sprint(result.Directory),
		"Run "+ui.Code.Sprint("ripenv recipients export --force")+" and "+ui.Code.Sprint("ripenv encrypt --force")+" to revoke access")
	return nil
}
