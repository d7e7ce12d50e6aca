package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/megacrawl/internal/attachment"
	"github.com/nao1215/megacrawl/internal/config"
	"github.com/nao1215/megacrawl/internal/extractor"
	"github.com/nao1215/megacrawl/internal/fetch"
	"github.com/nao1215/megacrawl/internal/model"
	"github.com/nao1215/megacrawl/internal/session"
	"github.com/nao1215/megacrawl/internal/source"
)

// Emitter receives crawl events as they happen. Implementations render
// them for a human; the crawler itself never prints.
//
// Design decision: We push rows through an interface rather than
// returning them in bulk because the run can take minutes with the
// politeness delay, and the caller should see each record as soon as
// its detail page has been fetched.
type Emitter interface {
	// PageStart is called before the list request for a page.
	PageStart(page int)

	// Row is called once per collected record, immediately after its
	// detail page (and any prefetch) completes.
	Row(r model.DetailResult)

	// NoData is called for a page whose list came back empty.
	NoData(page int)

	// PageDone is called after a page finishes. done and total count
	// pages, not rows.
	PageDone(page, done, total int)
}

// nopEmitter discards all events.
type nopEmitter struct{}

func (nopEmitter) PageStart(int)          {}
func (nopEmitter) Row(model.DetailResult) {}
func (nopEmitter) NoData(int)             {}
func (nopEmitter) PageDone(int, int, int) {}

// Crawler drives one crawl run: list page, detail per row, politeness
// delay between requests. It holds no result state of its own; results
// accumulate in the session passed to Crawl.
type Crawler struct {
	// client performs all list and detail requests for the run.
	client *fetch.Client

	// def describes the portal section being crawled.
	def *source.Definition

	// attachments handles eager prefetch when the source supports it.
	// May be nil when the source has no attachment surface.
	attachments *attachment.Manager

	emitter Emitter
	logger  *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithEmitter sets the event sink. The default discards events.
func WithEmitter(e Emitter) Option {
	return func(c *Crawler) {
		c.emitter = e
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithAttachmentManager enables attachment prefetch during the crawl.
func WithAttachmentManager(m *attachment.Manager) Option {
	return func(c *Crawler) {
		c.attachments = m
	}
}

// New creates a Crawler for one portal section using the given HTTP
// client.
//
// Design decision: We require an external client and source definition
// because request shaping (cookies, headers, TLS posture) is configured
// once in the fetch package, and tests can point the same crawler at
// httptest servers through a custom definition.
func New(client *fetch.Client, def *source.Definition, opts ...Option) *Crawler {
	c := &Crawler{
		client:  client,
		def:     def,
		emitter: nopEmitter{},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Crawl walks cfg's page range in ascending order and appends one
// DetailResult per list row to the session. Rows within a page are
// processed in list order with no concurrency.
//
// A failed list or detail request halts the run; everything collected
// up to that point stays in the session. An empty page is reported to
// the emitter and skipped. Prefetch failures are recorded per
// attachment and never halt the run.
func (c *Crawler) Crawl(ctx context.Context, cfg *config.Config, sess *session.Session) error {
	sess.Begin(cfg)

	totalPages := cfg.EndPage - cfg.StartPage + 1
	for page := cfg.StartPage; page <= cfg.EndPage; page++ {
		c.emitter.PageStart(page)

		listHTML, err := c.client.FetchList(ctx, c.def, cfg.Cookies, page)
		if err != nil {
			return fmt.Errorf("fetch list page %d: %w", page, err)
		}

		rows, err := extractor.ExtractList(strings.NewReader(listHTML))
		if err != nil {
			return fmt.Errorf("parse list page %d: %w", page, err)
		}

		if len(rows) == 0 {
			c.logger.Info("no rows on page", "source", c.def.Kind.String(), "page", page)
			c.emitter.NoData(page)
			c.emitter.PageDone(page, page-cfg.StartPage+1, totalPages)
			continue
		}

		for _, row := range rows {
			result, err := c.collectRow(ctx, cfg, row, page)
			if err != nil {
				return err
			}

			c.emitter.Row(result)
			sess.Append(result)

			if err := c.sleep(ctx, cfg.Delay); err != nil {
				return err
			}
		}

		c.emitter.PageDone(page, page-cfg.StartPage+1, totalPages)

		if err := c.sleep(ctx, cfg.Delay); err != nil {
			return err
		}
	}

	c.logger.Info("crawl finished", "source", c.def.Kind.String(), "rows", sess.Len())
	return nil
}

// collectRow fetches one detail page and builds its record.
func (c *Crawler) collectRow(ctx context.Context, cfg *config.Config, row model.ListRow, page int) (model.DetailResult, error) {
	detailHTML, err := c.client.FetchDetail(ctx, c.def, cfg.Cookies, row.Idx, page)
	if err != nil {
		return model.DetailResult{}, fmt.Errorf("fetch detail idx %s: %w", row.Idx, err)
	}

	body, err := extractor.ExtractDetail(strings.NewReader(detailHTML))
	if err != nil {
		return model.DetailResult{}, fmt.Errorf("parse detail idx %s: %w", row.Idx, err)
	}

	result := model.DetailResult{
		Idx:   row.Idx,
		Title: row.Title,
		Body:  body,
	}

	if c.def.Kind.SupportsAttachments() {
		urls, err := extractor.ExtractAttachments(strings.NewReader(detailHTML))
		if err != nil {
			return model.DetailResult{}, fmt.Errorf("parse attachments idx %s: %w", row.Idx, err)
		}
		result.Attachments = urls

		if cfg.Prefetch && c.attachments != nil && len(urls) > 0 {
			result.Prefetched = c.attachments.Prefetch(ctx, row.Idx, urls, cfg.PrefetchLimitBytes())
		}
	}

	return result, nil
}

// sleep blocks for the politeness delay, waking early on cancellation.
func (c *Crawler) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
