package envelope

import "runtime"

// Option configures an Encrypt call.
type Option func(*options)

type options struct {
	projectID   string
	concurrency int
}

func defaultOptions() *options {
	return &options{concurrency: runtime.NumCPU()}
}

// WithProjectID records a project identifier in the manifest.
func WithProjectID(projectID string) Option {
	return func(o *options) {
		o.projectID = projectID
	}
}

// WithConcurrency bounds how many recipients are wrapped at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
