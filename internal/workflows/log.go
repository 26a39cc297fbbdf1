package workflows

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ripenv/ripenv/internal/audit"
	kerrors "github.com/ripenv/ripenv/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by user email.
	User string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log.
//
// Returns an empty result if no audit log exists.
// Returns ErrInvalidDateFormat if the date format is invalid.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keep, err := logPredicates(opts)
	if err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	filtered := make([]audit.Entry, 0, len(entries))
	for _, e := range entries {
		if matchesAll(e, keep) {
			filtered = append(filtered, e)
		}
	}

	if opts.Reverse {
		slices.Reverse(filtered)
	}

	// The most recent entries survive the limit in either order.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	return &LogResult{Entries: filtered, TotalEntriesBeforeFilter: len(entries)}, nil
}

// logPredicates turns the filter options into entry predicates.
func logPredicates(opts LogOptions) ([]func(audit.Entry) bool, error) {
	var keep []func(audit.Entry) bool

	if opts.User != "" {
		keep = append(keep, func(e audit.Entry) bool {
			return strings.EqualFold(e.User, opts.User)
		})
	}

	if opts.Operations != "" {
		ops := make(map[string]bool)
		for _, op := range strings.Split(opts.Operations, ",") {
			ops[strings.ToLower(strings.TrimSpace(op))] = true
		}
		keep = append(keep, func(e audit.Entry) bool {
			return ops[strings.ToLower(e.Operation)]
		})
	}

	if opts.Since != "" {
		since, err := time.Parse(time.DateOnly, opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		keep = append(keep, func(e audit.Entry) bool {
			t, ok := parseTimestamp(e.Timestamp)
			return ok && !t.Before(since)
		})
	}

	if opts.Until != "" {
		until, err := time.Parse(time.DateOnly, opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Until is inclusive of the whole day.
		until = until.AddDate(0, 0, 1)
		keep = append(keep, func(e audit.Entry) bool {
			t, ok := parseTimestamp(e.Timestamp)
			return ok && t.Before(until)
		})
	}

	return keep, nil
}

func matchesAll(e audit.Entry, keep []func(audit.Entry) bool) bool {
	for _, k := range keep {
		if !k(e) {
			return false
		}
	}
	return true
}

// parseTimestamp accepts the audit layout and plain RFC 3339.
func parseTimestamp(ts string) (time.Time, bool) {
	if t, err := time.Parse(audit.TimeLayout, ts); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatDate formats a timestamp as YYYY-MM-DD. Unparseable timestamps are truncated.
func FormatDate(ts string) string {
	if t, ok := parseTimestamp(ts); ok {
		return t.Format(time.DateOnly)
	}
	return truncate(ts, len(time.DateOnly))
}

// FormatDateTime formats a timestamp as YYYY-MM-DD HH:MM:SS. Unparseable timestamps are truncated.
func FormatDateTime(ts string) string {
	if t, ok := parseTimestamp(ts); ok {
		return t.Format(time.DateTime)
	}
	return truncate(ts, len(time.DateTime))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// FormatDetails formats the details for a log entry in verbose format.
func FormatDetails(e audit.Entry) string {
	switch e.Operation {
	case "encrypt":
		details := fmt.Sprintf("%d recipients", e.RecipientsCount)
		if e.ProjectID != "" {
			details = e.ProjectID + ", " + details
		}
		if len(e.Files) > 0 {
			details += ": " + strings.Join(e.Files, ", ")
		}
		return details
	case "decrypt":
		return strings.Join(e.Files, ", ")
	case "register", "remove":
		return e.TargetUser
	case "export":
		return fmt.Sprintf("%s (%d recipients)", e.OutputPath, e.RecipientsCount)
	case "init":
		if e.TargetUser != "" {
			return fmt.Sprintf("%s, registered %s", strings.Join(e.Files, ", "), e.TargetUser)
		}
		return strings.Join(e.Files, ", ")
	default:
		return ""
	}
}

// FormatDetailsOneline formats the details for a log entry in oneline format.
func FormatDetailsOneline(e audit.Entry) string {
	switch e.Operation {
	case "encrypt":
		return fmt.Sprintf("%d recipients", e.RecipientsCount)
	case "decrypt":
		if len(e.Files) == 0 {
			return ""
		}
		return e.Files[0]
	case "register", "remove":
		return e.TargetUser
	case "export":
		return e.OutputPath
	case "init":
		return e.TargetUser
	default:
		return ""
	}
}
