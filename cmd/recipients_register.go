package cmd

import (
	"context"

	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	registerDirectory   string
	registerEmail       string
	registerPublicKey   string
	registerKeyfilePath string
)

func init() {
	recipientsRegisterCmd.Flags().StringVar(&registerDirectory, "directory", "", "key directory to register into (default: configured directory)")
	recipientsRegisterCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email of the identity")
	recipientsRegisterCmd.Flags().StringVar(&registerPublicKey, "pubkey", "", "base64 public key")
	recipientsRegisterCmd.Flags().StringVarP(&registerKeyfilePath, "keyfile", "k", "", "keyfile to take the public key from")
	recipientsRegisterCmd.MarkFlagsMutuallyExclusive("pubkey", "keyfile")
	recipientsRegisterCmd.MarkFlagsOneRequired("pubkey", "keyfile")
	_ = recipientsRegisterCmd.MarkFlagRequired("email")
}

var recipientsRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Add an identity to a key directory",
	Long: `Stores an email and public key in a key directory, replacing any earlier
record for that email. The key can be given as text or read from a keyfile.

Examples:
  ripenv recipients register --email bob@example.com --pubkey "<base64 key>"
  ripenv recipients register --directory ./team-keys --email alice@example.com --keyfile mykey.enc.json`,
	Args: cobra.NoArgs,
	RunE: runRecipientsRegister,
}

func runRecipientsRegister(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting recipients register command")
	spinner, cleanup := startSpinner("Registering identity...")
	defer cleanup()

	result, err := workflows.Register(context.Background(), workflows.RegisterOptions{
		Directory:     registerDirectory,
		Email:         registerEmail,
		PublicKeyText: registerPublicKey,
		KeyfilePath:   registerKeyfilePath,
	})
	if err != nil {
		return report(spinner, err)
	}
	Logger.Debugf("Registered with mode %s", result.Mode)

	verb := "Registered "
	if result.Replaced {
		verb = "Replaced the key of "
	}
	spinner.FinalMSG = ui.Done(verb+ui.Highlight.Sprint(result.Record.Email)+" "+ui.Muted.Sprint(result.Fingerprint)+" in "+ui.Path.Sprint(result.Directory),
		"Run "+ui.Code.Sprint("ripenv recipients export")+" and "+ui.Code.Sprint("ripenv encrypt")+" to grant access")
	return nil
}
