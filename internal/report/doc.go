// Package report renders crawl results for humans and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text table for terminal display
//   - MarkdownWriter: Markdown document for sharing
//   - JSONWriter: Structured JSON output for tool integration
//
// It also provides TermEmitter, which streams crawl events to the
// terminal while the crawl is running.
//
// Design decision: We separate result rendering from the result data
// structures (which are in the model package) to follow the single
// responsibility principle. This allows adding new output formats
// without modifying the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
