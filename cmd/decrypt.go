package cmd

import (
	"context"
	"fmt"

	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
)

var (
	decryptEncPath       string
	decryptManifestPath  string
	decryptEmail         string
	decryptKeyfilePath   string
	decryptOutPath       string
	decryptForce         bool
	decryptPasswordStdin bool
)

func init() {
	decryptCmd.Flags().StringVar(&decryptEncPath, "enc", "", "encrypted payload (default: .env.enc)")
	decryptCmd.Flags().StringVarP(&decryptManifestPath, "manifest", "m", "", "manifest (default: next to the payload)")
	decryptCmd.Flags().StringVarP(&decryptEmail, "email", "e", "", "your recipient email (default: configured email)")
	decryptCmd.Flags().StringVarP(&decryptKeyfilePath, "keyfile", "k", "", "your keyfile (default: configured keyfile)")
	decryptCmd.Flags().StringVarP(&decryptOutPath, "out", "o", "", "plaintext output (default: .env next to the payload)")
	decryptCmd.Flags().BoolVarP(&decryptForce, "force", "f", false, "overwrite an existing output")
	decryptCmd.Flags().BoolVar(&decryptPasswordStdin, "password-stdin", false, "read the password from the first line of stdin")

	RootCmd.AddCommand(decryptCmd)
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt a .env.enc file with your keyfile",
	Long: `Unlocks your keyfile, opens your entry in the manifest and writes the
decrypted .env file.

Examples:
  ripenv decrypt
  ripenv decrypt --enc config/.env.enc --out config/.env --force
  echo "$PASSWORD" | ripenv decrypt --password-stdin --email ci@example.com`,
	Args: cobra.NoArgs,
	RunE: runDecrypt,
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting decrypt command")

	password, err := readPassword(decryptPasswordStdin, false)
	if err != nil {
		return reportNow(err)
	}
	defer memguard.WipeBytes(password)

	spinner, cleanup := startSpinner("Decrypting environment file...")
	defer cleanup()

	result, err := workflows.Decrypt(context.Background(), workflows.DecryptOptions{
		EncPath:      decryptEncPath,
		ManifestPath: decryptManifestPath,
		Email:        decryptEmail,
		KeyfilePath:  decryptKeyfilePath,
		Password:     password,
		OutPath:      decryptOutPath,
		Force:        decryptForce,
	})
	if err != nil {
		return report(spinner, err)
	}
	Logger.Infof("Decrypted %d bytes for %s", result.Size, result.Email)

	spinner.FinalMSG = ui.Done(
		fmt.Sprintf("Decrypted %s as %s", ui.Path.Sprint(result.OutPath), ui.Highlight.Sprint(result.Email)),
	) + "\n" + ui.Warning.Sprint("Warning:") + " Never commit the decrypted .env file"
	return nil
}
