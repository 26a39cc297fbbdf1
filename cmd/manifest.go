package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ripenv/ripenv/internal/manifest"
	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/spf13/cobra"
)

var manifestShowJSON bool

// ManifestCmd groups commands that read manifests.
var ManifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect manifests",
}

func init() {
	manifestShowCmd.Flags().BoolVar(&manifestShowJSON, "json", false, "output the recipient summary as JSON")

	ManifestCmd.AddCommand(manifestShowCmd)
	RootCmd.AddCommand(ManifestCmd)
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Validate a manifest and list its recipients",
	Long: `Parses and validates a manifest, then prints each recipient's email and
public key fingerprint. Nothing is decrypted.

Examples:
  ripenv manifest show
  ripenv manifest show config/ripenv.manifest.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runManifestShow,
}

func runManifestShow(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting manifest show command")
	path := manifest.DefaultFilename
	if len(args) == 1 {
		path = args[0]
	}

	spinner, cleanup := startSpinner("Reading manifest...")
	defer cleanup()

	result, err := workflows.InspectManifest(context.Background(), workflows.InspectOptions{Path: path})
	if err != nil {
		return report(spinner, err)
	}

	if manifestShowJSON {
		data, err := json.MarshalIndent(result.Recipients, "", "  ")
		if err != nil {
			return report(spinner, fmt.Errorf("failed to marshal recipients to JSON: %w", err))
		}
		spinner.FinalMSG = string(data)
		return nil
	}

	var message strings.Builder
	header := fmt.Sprintf("%s: version %d", ui.Path.Sprint(result.Path), result.Manifest.Version)
	if result.Manifest.ProjectID != "" {
		header += ", project " + ui.Highlight.Sprint(result.Manifest.ProjectID)
	}
	if result.Manifest.Algo != "" {
		header += ", " + result.Manifest.Algo
	}
	message.WriteString(ui.Done(header))
	message.WriteString(fmt.Sprintf("\n%d recipients:", len(result.Recipients)))
	for _, recipient := range result.Recipients {
		message.WriteString("\n    - " + recipient.Email + " " + ui.Muted.Sprint(recipient.Fingerprint))
	}
	spinner.FinalMSG = message.String()
	return nil
}
