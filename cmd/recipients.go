package cmd

import (
	"github.com/spf13/cobra"
)

// RecipientsCmd groups commands that manage key directories and recipients exports.
var RecipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "Manage key directories and recipients exports",
	Long: `A key directory holds one public-key record per teammate. A recipients
export is the snapshot of a key directory that encrypt reads.`,
}

func init() {
	RecipientsCmd.AddCommand(recipientsExportCmd)
	RecipientsCmd.AddCommand(recipientsRegisterCmd)
	RecipientsCmd.AddCommand(recipientsRemoveCmd)

	RootCmd.AddCommand(RecipientsCmd)
}
