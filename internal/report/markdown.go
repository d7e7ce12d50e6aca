package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs the summary in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(s *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	w.writeRows(md, s)
	w.writeAttachments(md, s)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *Summary) {
	md.H1(s.Source)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Pages", fmt.Sprintf("%d-%d", s.StartPage, s.EndPage)},
			{"Rows", strconv.Itoa(len(s.Rows))},
			{"Attachments", strconv.Itoa(s.AttachmentCount())},
			{"Prepared files", strconv.Itoa(s.PreparedFiles)},
		},
	})
	md.PlainText("")
}

// writeRows writes the collected rows and their bodies.
func (w *MarkdownWriter) writeRows(md *markdown.Markdown, s *Summary) {
	md.H2("Rows")
	md.PlainText("")

	if len(s.Rows) == 0 {
		md.Note("No rows were collected in the crawled page range.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = []string{r.Idx, r.Title, strconv.Itoa(len(r.Attachments))}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Idx", "Title", "Attachments"},
		Rows:   rows,
	})
	md.PlainText("")

	// Bodies are long; fold each one behind its title.
	for _, r := range s.Rows {
		if r.Body != "" {
			md.Details(fmt.Sprintf("%s (%s)", r.Title, r.Idx), r.Body)
		}
	}
	md.PlainText("")
}

// writeAttachments writes the attachment URL listing per row.
func (w *MarkdownWriter) writeAttachments(md *markdown.Markdown, s *Summary) {
	if s.AttachmentCount() == 0 {
		return
	}

	md.H2("Attachments")
	md.PlainText("")

	for _, r := range s.Rows {
		if len(r.Attachments) == 0 {
			continue
		}
		md.H3f("%s (%s)", r.Title, r.Idx)
		md.BulletList(r.Attachments...)
		md.PlainText("")
	}
}
