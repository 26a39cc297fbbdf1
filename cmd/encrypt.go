package cmd

import (
	"context"
	"strings"

	"github.com/ripenv/ripenv/internal/recipients"
	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/utils"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	encryptEnvPath     string
	encryptRecipients  string
	encryptDirectory   string
	encryptProjectID   string
	encryptOutDir      string
	encryptForce       bool
	encryptConcurrency int
)

func init() {
	encryptCmd.Flags().StringVar(&encryptEnvPath, "env", ".env", "plaintext file to encrypt")
	encryptCmd.Flags().StringVarP(&encryptRecipients, "recipients", "r", "", "recipients export file")
	encryptCmd.Flags().StringVar(&encryptDirectory, "directory", "", "key directory to take recipients from (default: configured directory)")
	encryptCmd.Flags().StringVarP(&encryptProjectID, "project", "p", "", "project id recorded in the manifest (default: the export's projectId)")
	encryptCmd.Flags().StringVarP(&encryptOutDir, "out", "o", "", "output directory (default: configured out_dir, then current directory)")
	encryptCmd.Flags().BoolVarP(&encryptForce, "force", "f", false, "overwrite existing outputs")
	encryptCmd.Flags().IntVar(&encryptConcurrency, "concurrency", 0, "parallel key wrapping workers (default: configured value, then CPU count)")
	encryptCmd.MarkFlagsMutuallyExclusive("recipients", "directory")

	RootCmd.AddCommand(encryptCmd)
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a .env file for every recipient",
	Long: `Encrypts a .env file with a fresh file key and wraps that key for each
recipient. Writes the encrypted payload and the manifest side by side.

Examples:
  ripenv encrypt --recipients recipients.json
  ripenv encrypt --directory ./team-keys --project acme
  ripenv encrypt --env config/.env.production --out config --force`,
	Args: cobra.NoArgs,
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting encrypt command")
	spinner, cleanup := startSpinner("Encrypting environment file...")
	defer cleanup()

	opts := workflows.EncryptOptions{
		EnvPath:     encryptEnvPath,
		ProjectID:   encryptProjectID,
		OutDir:      encryptOutDir,
		Force:       encryptForce,
		Concurrency: encryptConcurrency,
	}
	switch {
	case encryptRecipients != "":
		Logger.Debugf("Reading recipients from export %s", encryptRecipients)
		opts.Source = recipients.FileSource{Path: encryptRecipients}
	case encryptDirectory != "":
		Logger.Debugf("Reading recipients from key directory %s", encryptDirectory)
		opts.Source = recipients.DirectorySource{Dir: encryptDirectory}
	}

	result, err := workflows.Encrypt(context.Background(), opts)
	if err != nil {
		return report(spinner, err)
	}
	Logger.Infof("Encrypted for %d recipients", len(result.Recipients))

	var message strings.Builder
	if result.Empty {
		message.WriteString(ui.Warning.Sprint("Warning:") + " " + ui.Path.Sprint(encryptEnvPath) + " is empty\n")
	}
	if result.ParseWarning != nil {
		message.WriteString(ui.Warning.Sprint("Warning:") + " " + ui.Path.Sprint(encryptEnvPath) +
			" does not parse as a dotenv file and was encrypted as-is: " + result.ParseWarning.Error() + "\n")
	}
	summary := "Encrypted for " + ui.Highlight.Sprint(strings.Join(result.Recipients, ", "))
	if result.ProjectID != "" {
		summary += " in project " + ui.Highlight.Sprint(result.ProjectID)
	}
	message.WriteString(ui.Done(summary))
	message.WriteString("\nThe following files were created:" + utils.FormatPaths([]string{result.PayloadPath, result.ManifestPath}))
	message.WriteString(ui.Info.Sprint("→") + " You can now safely commit both files to version control")
	spinner.FinalMSG = message.String()
	return nil
}
