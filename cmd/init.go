package cmd

import (
	"context"
	"strings"

	"github.com/ripenv/ripenv/internal/configs"
	"github.com/ripenv/ripenv/internal/secrets"
	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/utils"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
)

var (
	initOutDir        string
	initFilename      string
	initForce         bool
	initRegisterDir   string
	initEmail         string
	initPasswordStdin bool
)

func init() {
	initCmd.Flags().StringVarP(&initOutDir, "out", "o", "", "directory for the working copy of the keyfile (default: current directory)")
	initCmd.Flags().StringVar(&initFilename, "filename", secrets.DefaultKeyfileName, "keyfile name")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing keyfiles")
	initCmd.Flags().StringVar(&initRegisterDir, "register", "", "register the new public key in this key directory")
	initCmd.Flags().StringVarP(&initEmail, "email", "e", "", "email to register under (default: configured email)")
	initCmd.Flags().BoolVar(&initPasswordStdin, "password-stdin", false, "read the password from the first line of stdin")

	RootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new password-protected identity keyfile",
	Long: `Generates a new identity keypair and writes it as a password-protected
keyfile to the current directory and to your user key directory.

Examples:
  ripenv init
  ripenv init --register ./team-keys --email alice@example.com
  echo "$PASSWORD" | ripenv init --password-stdin --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")

	email := initEmail
	if initRegisterDir != "" && email == "" {
		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return reportNow(err)
		}
		email = userConfig.User.Email
		Logger.Debugf("Using configured email %q for registration", email)
	}

	password, err := readPassword(initPasswordStdin, true)
	if err != nil {
		return reportNow(err)
	}
	defer memguard.WipeBytes(password)

	spinner, cleanup := startSpinner("Generating identity keypair...")
	defer cleanup()

	result, err := workflows.Init(context.Background(), workflows.InitOptions{
		Password:    password,
		OutDir:      initOutDir,
		Filename:    initFilename,
		Force:       initForce,
		RegisterDir: initRegisterDir,
		Email:       email,
	})
	if err != nil {
		return report(spinner, err)
	}
	Logger.Infof("Wrote %d keyfile copies", len(result.KeyfilePaths))

	var message strings.Builder
	message.WriteString(ui.Done("Identity keyfile created " + ui.Muted.Sprint(result.Fingerprint)))
	message.WriteString("\nKeyfiles:" + strings.TrimSuffix(utils.FormatPaths(result.KeyfilePaths), "\n"))
	message.WriteString("\nPublic key: " + ui.Highlight.Sprint(result.PublicKey))
	if result.Registered {
		message.WriteString("\n" + ui.Info.Sprint("→") + " Registered " + ui.Highlight.Sprint(email) + " in " + ui.Path.Sprint(initRegisterDir))
	} else {
		message.WriteString("\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("ripenv recipients register") + " to join a key directory")
	}
	message.WriteString("\n" + ui.Warning.Sprint("Warning:") + " Keep your keyfile private and never commit it")
	spinner.FinalMSG = message.String()
	return nil
}
