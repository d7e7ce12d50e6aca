package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrUnknownSource is returned when the source name matches none of
	// the supported portal sections.
	ErrUnknownSource = errors.New("unknown source: use one of the names or aliases shown by 'megacrawl sources'")

	// ErrInvalidPageRange is returned when the start page is below 1 or
	// the end page precedes the start page.
	ErrInvalidPageRange = errors.New("invalid page range: start must be >= 1 and end >= start")

	// ErrInvalidDelay is returned when the inter-request delay falls
	// outside the supported 0-2 second window.
	ErrInvalidDelay = errors.New("invalid delay: must be between 0s and 2s")

	// ErrInvalidPrefetchSize is returned when the prefetch size cap is
	// outside the 10-500 MB window.
	ErrInvalidPrefetchSize = errors.New("invalid prefetch size: must be between 10 and 500 MB")

	// ErrAttachmentsUnsupported is returned when prefetch or bulk
	// download options are combined with a source that has no
	// attachments.
	ErrAttachmentsUnsupported = errors.New("attachment options require the institutional announcement source")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
