package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/spf13/cobra"
)

// ConfigCmd groups commands that read and change the user configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage your ripenv user configuration",
	Long: `Reads and changes the defaults stored in your user config.toml.
Flags passed to a command always override these values.`,
}

func init() {
	ConfigCmd.AddCommand(configSetEmailCmd)
	ConfigCmd.AddCommand(configSetKeyfileCmd)
	ConfigCmd.AddCommand(configSetDirectoryCmd)
	ConfigCmd.AddCommand(configSetOutDirCmd)
	ConfigCmd.AddCommand(configSetConcurrencyCmd)
	ConfigCmd.AddCommand(configShowCmd)

	RootCmd.AddCommand(ConfigCmd)
}

var configSetEmailCmd = &cobra.Command{
	Use:   "set-email <email>",
	Short: "Set the email used to find your manifest entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetConfig("email", args[0], workflows.SetConfigOptions{Email: &args[0]})
	},
}

var configSetKeyfileCmd = &cobra.Command{
	Use:   "set-keyfile <path>",
	Short: "Set the keyfile used by decrypt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetConfig("keyfile", args[0], workflows.SetConfigOptions{Keyfile: &args[0]})
	},
}

var configSetDirectoryCmd = &cobra.Command{
	Use:   "set-directory <path>",
	Short: "Set the default key directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetConfig("directory", args[0], workflows.SetConfigOptions{Directory: &args[0]})
	},
}

var configSetOutDirCmd = &cobra.Command{
	Use:   "set-out-dir <path>",
	Short: "Set the default encrypt output directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetConfig("out_dir", args[0], workflows.SetConfigOptions{OutDir: &args[0]})
	},
}

var configSetConcurrencyCmd = &cobra.Command{
	Use:   "set-concurrency <n>",
	Short: "Set the default number of key wrapping workers (0 uses the CPU count)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return reportNow(fmt.Errorf("concurrency must be a number, got %q", args[0]))
		}
		return runSetConfig("concurrency", args[0], workflows.SetConfigOptions{Concurrency: &n})
	},
}

func runSetConfig(key, value string, opts workflows.SetConfigOptions) error {
	Logger.Infof("Setting %s", key)
	spinner, cleanup := startSpinner("Updating configuration...")
	defer cleanup()

	if _, err := workflows.SetConfig(context.Background(), opts); err != nil {
		return report(spinner, err)
	}
	spinner.FinalMSG = ui.Done("Set " + ui.Code.Sprint(key) + " to " + ui.Highlight.Sprint(value))
	return nil
}

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective user configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		spinner, cleanup := startSpinner("Loading configuration...")
		defer cleanup()

		result, err := workflows.ShowConfig(context.Background())
		if err != nil {
			return report(spinner, err)
		}

		if configShowJSON {
			data, err := json.MarshalIndent(map[string]any{
				"path":        result.Path,
				"email":       result.Config.User.Email,
				"keyfile":     result.Keyfile,
				"out_dir":     result.OutDir,
				"directory":   result.Config.Defaults.Directory,
				"concurrency": result.Config.Defaults.Concurrency,
			}, "", "  ")
			if err != nil {
				return report(spinner, fmt.Errorf("failed to marshal config to JSON: %w", err))
			}
			spinner.FinalMSG = string(data)
			return nil
		}

		spinner.FinalMSG = fmt.Sprintf("%s\n  %-12s %s\n  %-12s %s\n  %-12s %s\n  %-12s %s\n  %-12s %d",
			ui.Info.Sprint("User configuration")+" "+ui.Muted.Sprint(result.Path),
			"email:", orUnset(result.Config.User.Email),
			"keyfile:", ui.Path.Sprint(result.Keyfile),
			"out_dir:", ui.Path.Sprint(result.OutDir),
			"directory:", orUnset(result.Config.Defaults.Directory),
			"concurrency:", result.Config.Defaults.Concurrency,
		)
		return nil
	},
}

func orUnset(value string) string {
	if value == "" {
		return ui.Muted.Sprint("not set")
	}
	return ui.Highlight.Sprint(value)
}
