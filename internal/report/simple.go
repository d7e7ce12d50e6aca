package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// SimpleWriter outputs a human-readable text summary.
// This format is designed for terminal display.
//
// Design decision: We align the idx/title table with go-runewidth rather
// than text/tabwriter because the titles are Korean and Hangul occupies
// two terminal cells per rune; byte- or rune-based padding produces
// ragged columns.
type SimpleWriter struct {
	baseWriter

	// maxTitleWidth truncates the title column to this display width.
	maxTitleWidth int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithMaxTitleWidth sets the display width at which titles are truncated.
func WithMaxTitleWidth(width int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxTitleWidth = width
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:    newBaseWriter(output),
		maxTitleWidth: 60,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary as an aligned text table.
func (w *SimpleWriter) Write(s *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, s)
	w.writeRows(&sb, s)
	w.writeFooter(&sb, s)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run information block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s  (page %d-%d)\n", s.Source, s.StartPage, s.EndPage))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writeRows writes the idx/title table.
func (w *SimpleWriter) writeRows(sb *strings.Builder, s *Summary) {
	if len(s.Rows) == 0 {
		sb.WriteString("  수집된 데이터가 없습니다.\n\n")
		return
	}

	idxWidth := len("idx")
	for _, r := range s.Rows {
		if len(r.Idx) > idxWidth {
			idxWidth = len(r.Idx)
		}
	}

	sb.WriteString(fmt.Sprintf("  %-*s  %s\n", idxWidth, "idx", "title"))
	sb.WriteString(fmt.Sprintf("  %s  %s\n", strings.Repeat("-", idxWidth), strings.Repeat("-", w.maxTitleWidth)))
	for _, r := range s.Rows {
		title := runewidth.Truncate(r.Title, w.maxTitleWidth, "...")
		sb.WriteString(fmt.Sprintf("  %-*s  %s\n", idxWidth, r.Idx, title))
	}
	sb.WriteString("\n")
}

// writeFooter writes the counts line.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, s *Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("rows: %d", len(s.Rows)))
	if n := s.AttachmentCount(); n > 0 {
		sb.WriteString(fmt.Sprintf("  attachments: %d", n))
	}
	if s.PreparedFiles > 0 {
		sb.WriteString(fmt.Sprintf("  prepared: %d", s.PreparedFiles))
	}
	sb.WriteString("\n")
}
