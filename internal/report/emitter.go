package report

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/nao1215/megacrawl/internal/model"
)

// TermEmitter renders crawl events to a terminal as they happen. It
// satisfies the crawler's Emitter interface.
type TermEmitter struct {
	output io.Writer

	// previewWidth truncates the body preview to this display width.
	previewWidth int
}

// TermEmitterOption configures a TermEmitter.
type TermEmitterOption func(*TermEmitter)

// WithPreviewWidth sets the display width of the body preview line.
func WithPreviewWidth(width int) TermEmitterOption {
	return func(e *TermEmitter) {
		e.previewWidth = width
	}
}

// NewTermEmitter creates a TermEmitter writing to the given writer.
func NewTermEmitter(output io.Writer, opts ...TermEmitterOption) *TermEmitter {
	e := &TermEmitter{
		output:       output,
		previewWidth: 80,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// PageStart prints the page header.
func (e *TermEmitter) PageStart(page int) {
	fmt.Fprintf(e.output, "\n== page %d ==\n", page)
}

// Row prints one collected record: idx, title, a single-line body
// preview, and the outcome of any attachment prefetch.
func (e *TermEmitter) Row(r model.DetailResult) {
	fmt.Fprintf(e.output, "[%s] %s\n", r.Idx, r.Title)

	if preview := firstLine(r.Body); preview != "" {
		fmt.Fprintf(e.output, "    %s\n", runewidth.Truncate(preview, e.previewWidth, "..."))
	}

	for i, rec := range r.Prefetched {
		switch {
		case rec.OK:
			fmt.Fprintf(e.output, "    첨부 %d: %s 저장됨\n", i+1, rec.Name)
		case rec.Reason == model.PrefetchReasonLimit:
			fmt.Fprintf(e.output, "    첨부 %d: %s 용량 초과로 건너뜀\n", i+1, rec.Name)
		default:
			fmt.Fprintf(e.output, "    첨부 %d: 실패 (%s)\n", i+1, rec.Reason)
		}
	}
}

// NoData prints the empty-page message.
func (e *TermEmitter) NoData(page int) {
	fmt.Fprintf(e.output, "%d페이지: 데이터가 없습니다.\n", page)
}

// PageDone prints the page completion progress.
func (e *TermEmitter) PageDone(page, done, total int) {
	fmt.Fprintf(e.output, "-- %d페이지 완료 (%d/%d) --\n", page, done, total)
}

// firstLine returns the text up to the first line break.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
