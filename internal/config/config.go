package config

import (
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/megacrawl/internal/source"
)

// Default configuration values. The request shaping defaults mirror what
// the portal's own front-end sends; changing them tends to get requests
// rejected.
const (
	// DefaultDelay is the pause between consecutive requests. It exists
	// to reduce load on the portal, not to shape throughput.
	DefaultDelay = 400 * time.Millisecond

	// MaxDelay caps the inter-request delay.
	MaxDelay = 2 * time.Second

	// DefaultPrefetchSizeMB is the per-file size cap for eager
	// attachment prefetch, in megabytes.
	DefaultPrefetchSizeMB = 50

	// MinPrefetchSizeMB and MaxPrefetchSizeMB bound the prefetch cap.
	MinPrefetchSizeMB = 10
	MaxPrefetchSizeMB = 500

	// DefaultExtensionFilter is the attachment extension allow-list for
	// bulk download. Empty means everything matches.
	DefaultExtensionFilter = "zip,pdf"

	// DefaultUserAgent matches the browser profile the portal expects.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"

	// AppName is the application name used for XDG directory paths.
	AppName = "megacrawl"
)

// Config holds all options for one crawl run. It is captured once at
// crawl start and treated as immutable for the duration of the run.
//
// Design decision: We use a single flat struct populated from CLI flags
// and passed through the application via dependency injection rather than
// global state, following the shape of the tools this one grew out of.
type Config struct {
	// SourceName selects the portal section. Korean display names and
	// ASCII aliases are both accepted.
	SourceName string

	// StartPage and EndPage bound the inclusive page range to crawl.
	StartPage int
	EndPage   int

	// Cookies are sent with every request. Keys and values are passed
	// through verbatim; the portal uses percent-encoded cookie names.
	Cookies map[string]string

	// Headers are sent with every request. Defaults come from
	// DefaultHeaders and caller-supplied values override key by key.
	Headers map[string]string

	// InsecureTLS disables certificate verification. The portal's file
	// servers fail strict verification, so this defaults to true.
	InsecureTLS bool

	// Delay is the blocking pause between consecutive requests.
	Delay time.Duration

	// Prefetch enables eager attachment download during the crawl.
	// Only valid for the institutional announcement source.
	Prefetch bool

	// PrefetchSizeMB is the per-file size cap for prefetch, in MB.
	PrefetchSizeMB int

	// Download enables the bulk selection download after the crawl.
	Download bool

	// Select narrows the bulk download to the listed item identifiers.
	// Empty means every collected item with attachments.
	Select []string

	// ExtensionFilter is the case-insensitive attachment extension
	// allow-list for bulk download. Empty matches everything.
	ExtensionFilter []string

	// SaveDir is where downloaded attachments are written. Empty means
	// the default XDG data directory.
	SaveDir string

	// JSONReport and MarkdownReport select the summary output format.
	// Mutually exclusive; the default is a human-readable table.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the summary to a file instead of stdout.
	ReportFile string

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a Config with default values for the given source.
//
// Design decision: We use a constructor instead of relying on zero values
// because many defaults are non-zero and the defaults double as
// documentation.
func NewConfig(sourceName string) *Config {
	return &Config{
		SourceName:      sourceName,
		StartPage:       1,
		EndPage:         1,
		Cookies:         map[string]string{},
		Headers:         DefaultHeaders(sourceName),
		InsecureTLS:     true,
		Delay:           DefaultDelay,
		PrefetchSizeMB:  DefaultPrefetchSizeMB,
		ExtensionFilter: SplitExtensions(DefaultExtensionFilter),
	}
}

// DefaultHeaders returns the fixed header set the portal's endpoints
// expect, with the Referer pointing at the selected source's list page.
func DefaultHeaders(sourceName string) map[string]string {
	headers := map[string]string{
		"User-Agent":       DefaultUserAgent,
		"Accept":           "text/html, */*; q=0.01",
		"X-Requested-With": "XMLHttpRequest",
	}
	if def, ok := source.Lookup(sourceName); ok {
		headers["Referer"] = def.RefererURL
	}
	return headers
}

// Source resolves the configured source name. Callers must have run
// Validate first; an unknown name returns nil.
func (c *Config) Source() *source.Definition {
	def, _ := source.Lookup(c.SourceName)
	return def
}

// PrefetchLimitBytes converts the MB cap to bytes.
func (c *Config) PrefetchLimitBytes() int64 {
	return int64(c.PrefetchSizeMB) * 1024 * 1024
}

// DefaultSaveDir returns the XDG data directory used when SaveDir is not
// set. On Linux this is ~/.local/share/megacrawl/downloads.
func DefaultSaveDir() string {
	return filepath.Join(xdg.DataHome, AppName, "downloads")
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any crawling begins.
func (c *Config) Validate() error {
	def, ok := source.Lookup(c.SourceName)
	if !ok {
		return ErrUnknownSource
	}

	if c.StartPage < 1 || c.EndPage < c.StartPage {
		return ErrInvalidPageRange
	}

	if c.Delay < 0 || c.Delay > MaxDelay {
		return ErrInvalidDelay
	}

	if c.PrefetchSizeMB < MinPrefetchSizeMB || c.PrefetchSizeMB > MaxPrefetchSizeMB {
		return ErrInvalidPrefetchSize
	}

	// The attachment surface only exists on the institutional section;
	// reject the combination instead of silently ignoring it.
	if (c.Prefetch || c.Download) && !def.Kind.SupportsAttachments() {
		return ErrAttachmentsUnsupported
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// ParseJSONMap parses a JSON object of string keys and values, as pasted
// from browser developer tools. Malformed input is reported through the
// logger and yields an empty map: a bad cookie paste should never kill a
// run.
func ParseJSONMap(raw string, logger *slog.Logger) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]string{}
	}

	m := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		logger.Warn("ignoring malformed JSON mapping", "error", err)
		return map[string]string{}
	}
	return m
}

// SplitExtensions splits a comma-separated extension list, lowercasing
// and trimming each entry and dropping empties.
func SplitExtensions(raw string) []string {
	parts := strings.Split(raw, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			exts = append(exts, p)
		}
	}
	return exts
}
