package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ripenv/ripenv/internal/audit"
	"github.com/ripenv/ripenv/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logUser      string
	logOperation string
	logSince     string
	logUntil     string
	logOneline   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by user email")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
	logCmd.MarkFlagsMutuallyExclusive("oneline", "json")

	RootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the local audit log",
	Long: `Displays the audit log of ripenv operations run on this machine.

Examples:
  ripenv log                              # View full log
  ripenv log -n 10                        # Last 10 entries
  ripenv log --reverse                    # Most recent first
  ripenv log --user alice@example.com     # Filter by user
  ripenv log --operation encrypt,decrypt  # Filter by operation
  ripenv log --since 2026-01-01           # Filter by date
  ripenv log --json                       # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	spinner, cleanup := startSpinner("Loading audit log...")
	defer cleanup()

	result, err := workflows.Log(context.Background(), workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		User:       logUser,
		Operations: logOperation,
		Since:      logSince,
		Until:      logUntil,
	})
	if err != nil {
		return report(spinner, err)
	}

	Logger.Debugf("Parsed %d entries from %s", result.TotalEntriesBeforeFilter, audit.LogPath())
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			spinner.FinalMSG = "No audit log entries found."
		} else {
			spinner.FinalMSG = "No audit log entries found matching the filters."
		}
		return nil
	}

	switch {
	case logJSON:
		data, err := json.MarshalIndent(result.Entries, "", "  ")
		if err != nil {
			return report(spinner, fmt.Errorf("failed to marshal entries to JSON: %w", err))
		}
		spinner.FinalMSG = string(data)
	case logOneline:
		spinner.FinalMSG = formatLogOneline(result.Entries)
	default:
		spinner.FinalMSG = formatLogDefault(result.Entries)
	}
	return nil
}

func formatLogOneline(entries []audit.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s %s %s\n", workflows.FormatDate(e.Timestamp), e.User, e.Operation, workflows.FormatDetailsOneline(e))
	}
	return b.String()
}

func formatLogDefault(entries []audit.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-19s  %-25s  %-10s  %s\n", workflows.FormatDateTime(e.Timestamp), e.User, e.Operation, workflows.FormatDetails(e))
	}
	return b.String()
}
