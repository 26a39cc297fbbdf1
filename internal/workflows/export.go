package workflows

import (
	"context"

	"github.com/ripenv/ripenv/internal/audit"
	"github.com/ripenv/ripenv/internal/recipients"
)

// DefaultExportFilename is the recipients export written when no path is given.
const DefaultExportFilename = "recipients.json"

// ExportOptions configures the export workflow.
type ExportOptions struct {
	// Directory is the key directory to export. Defaults to defaults.directory.
	Directory string

	// ProjectID names the project in the export. Required.
	ProjectID string

	// OutputPath defaults to recipients.json.
	OutputPath string

	// Force overwrites an existing export.
	Force bool
}

// ExportResult contains the outcome of an export operation.
type ExportResult struct {
	// OutputPath is the written export.
	OutputPath string

	// Export is the document that was written.
	Export *recipients.Export
}

// Export writes a recipients export listing every identity in a key directory.
//
// Returns ErrNoKeyDirectory if no directory is given or configured.
// Returns ErrInvalidRecipientsExport if the project id is missing or a
// directory record is unusable.
// Returns ErrFileExists if the output exists and Force is false.
func Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	dir, err := resolveDirectory(opts.Directory)
	if err != nil {
		return nil, err
	}
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = DefaultExportFilename
	}

	export, err := recipients.Build(ctx, recipients.DirectorySource{Dir: dir}, opts.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := recipients.WriteExport(export, outputPath, opts.Force); err != nil {
		return nil, err
	}

	auditEntry := audit.LogWithUser("export")
	auditEntry.OutputPath = outputPath
	auditEntry.ProjectID = export.ProjectID
	auditEntry.RecipientsCount = len(export.Recipients)
	audit.Log(auditEntry)

	return &ExportResult{OutputPath: outputPath, Export: export}, nil
}
