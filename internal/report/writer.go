package report

import (
	"io"

	"github.com/nao1215/megacrawl/internal/model"
)

// Summary is the post-crawl result set in presentation-ready form.
type Summary struct {
	// Source is the Korean display name of the crawled section.
	Source string `json:"source"`

	// StartPage and EndPage are the inclusive crawled page range.
	StartPage int `json:"start_page"`
	EndPage   int `json:"end_page"`

	// Rows are the collected records in crawl order.
	Rows []model.DetailResult `json:"rows"`

	// PreparedFiles is the number of attachment files held in memory at
	// the end of the run (prefetched or prepared on demand).
	PreparedFiles int `json:"prepared_files"`
}

// AttachmentCount returns the total number of attachment URLs across all
// rows.
func (s *Summary) AttachmentCount() int {
	n := 0
	for _, r := range s.Rows {
		n += len(r.Attachments)
	}
	return n
}

// Writer defines the interface for summary output.
// Implementations write the crawl summary in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(s *Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write summaries, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(s *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(s)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for summary writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
