package cmd

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/ripenv/ripenv/internal/logging"
	"github.com/ripenv/ripenv/internal/ui"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X github.com/ripenv/ripenv/cmd.Version=...".
var Version = "dev"

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "ripenv",
		Short: "Share one encrypted .env file with a team",
		Long: `ripenv encrypts a .env file once and wraps the file key for every
teammate's public key, so the encrypted file and its manifest can be
committed next to the code.

Typical flow:
  ripenv init --register ./team-keys --email you@example.com
  ripenv recipients export --directory ./team-keys --project acme
  ripenv encrypt --recipients recipients.json
  ripenv decrypt

Run 'ripenv help <command>' for more details on a specific command.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Running %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			banner := figure.NewColorFigure("ripenv", "alligator2", "green", true)
			banner.Print()
			fmt.Println()
			fmt.Println("Run " + ui.Code.Sprint("ripenv --help") + " to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, ui.Failure(err.Error()))
		}
		return 1
	}
	return 0
}
