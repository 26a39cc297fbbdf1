package recipients

import (
	"context"
	"fmt"

	"github.com/ripenv/ripenv/internal/directory"
	"github.com/ripenv/ripenv/internal/envelope"
	kerrors "github.com/ripenv/ripenv/internal/errors"
)

// Source resolves the recipients of a project.
type Source interface {
	Recipients(ctx context.Context, projectID string) ([]envelope.Recipient, error)
}

// FileSource reads recipients from an export file.
type FileSource struct {
	Path string
}

// Recipients implements Source. When projectID is set it must match the
// export's projectId.
func (s FileSource) Recipients(ctx context.Context, projectID string) ([]envelope.Recipient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	export, err := LoadExport(s.Path)
	if err != nil {
		return nil, err
	}
	if projectID != "" && export.ProjectID != projectID {
		return nil, fmt.Errorf("%w: %s is for project %q, not %q", kerrors.ErrInvalidRecipientsExport, s.Path, export.ProjectID, projectID)
	}
	return export.Recipients, nil
}

// ProjectID returns the export's projectId.
func (s FileSource) ProjectID() (string, error) {
	export, err := LoadExport(s.Path)
	if err != nil {
		return "", err
	}
	return export.ProjectID, nil
}

// DirectorySource lists every identity in a local key directory.
type DirectorySource struct {
	Dir string
}

// Recipients implements Source. The directory holds no project scoping, so
// projectID is ignored.
func (s DirectorySource) Recipients(ctx context.Context, _ string) ([]envelope.Recipient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := directory.New(s.Dir).List()
	if err != nil {
		return nil, err
	}

	recipients := make([]envelope.Recipient, 0, len(records))
	for _, record := range records {
		recipients = append(recipients, envelope.Recipient{Email: record.Email, PublicKey: record.PublicKey})
	}
	return recipients, nil
}

// Build resolves recipients from source into an export for projectID.
func Build(ctx context.Context, source Source, projectID string) (*Export, error) {
	list, err := source.Recipients(ctx, projectID)
	if err != nil {
		return nil, err
	}
	export := &Export{ProjectID: projectID, Recipients: list}
	if err := export.Validate(); err != nil {
		return nil, err
	}
	return export, nil
}
