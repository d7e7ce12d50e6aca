// Package model defines the core data structures used throughout megacrawl.
//
// This package contains the following main types:
//   - ListRow: A single entry parsed from a portal list page
//   - DetailResult: A fetched item with body text and attachments
//   - PrefetchRecord: The outcome of one eager attachment download
//   - PreparedFile: Downloaded attachment bytes keyed by AttachmentKey
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, attachment, report, session) need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output.
package model
