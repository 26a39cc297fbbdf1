package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ripenv/ripenv/internal/configs"

	"github.com/google/uuid"
)

// TimeLayout is the UTC timestamp format of Entry.Timestamp.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	ID        string `json:"id"`   // Unique per operation.
	User      string `json:"user"` // Email of user performing action.
	Operation string `json:"op"`   // Operation name.

	// Optional fields depending on operation.
	Files           []string `json:"files,omitempty"`            // For encrypt/decrypt.
	RecipientsCount int      `json:"recipients_count,omitempty"` // For encrypt/export.
	ProjectID       string   `json:"project_id,omitempty"`       // For encrypt/export.
	TargetUser      string   `json:"target_user,omitempty"`      // For register.
	OutputPath      string   `json:"output_path,omitempty"`      // For export/init.
}

// Log appends an entry to the audit log, filling in the timestamp and id.
// Failures are dropped: an operation never fails because auditing did.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimeLayout)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	logPath := LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	// Encode writes the entry and its trailing newline in one call.
	_ = json.NewEncoder(f).Encode(entry)
}

// LogWithUser is a convenience function that populates the user from config,
// falling back to the system username.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op, User: configs.UserRipenvSettings.Username}

	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return entry
	}
	if userConfig.User.Email != "" {
		entry.User = userConfig.User.Email
	}

	return entry
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return filepath.Join(configs.UserRipenvSettings.UserDataPath, "audit.jsonl")
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Blank and malformed lines are skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
