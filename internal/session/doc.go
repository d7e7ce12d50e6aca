// Package session holds the process-wide mutable state of an interactive
// crawl: accumulated results, the active configuration snapshot, and
// prepared attachment files. State lives for the process lifetime and is
// cleared only by an explicit reset.
package session
