package attachment

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/nao1215/megacrawl/internal/fetch"
	"github.com/nao1215/megacrawl/internal/model"
	"github.com/nao1215/megacrawl/internal/session"
	"github.com/nao1215/megacrawl/internal/source"
)

// Manager downloads attachments discovered on detail pages and stores the
// results as prepared files in the session.
//
// Two interaction modes exist: eager prefetch during the crawl (with a
// per-file size cap) and lazy, caller-triggered preparation of a single
// attachment after the crawl (no cap). Both key stored files by
// (idx, attachment index).
type Manager struct {
	client  *fetch.Client
	def     *source.Definition
	cookies map[string]string
	sess    *session.Session
	logger  *slog.Logger

	// group collapses concurrent Prepare calls for the same key, so a
	// double-triggered request downloads once.
	group singleflight.Group

	// newClient builds the independent client instances used by bulk
	// download; overridable for tests.
	newClient func() *fetch.Client
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClientFactory overrides how bulk download builds its per-item
// client instances.
func WithClientFactory(fn func() *fetch.Client) Option {
	return func(m *Manager) {
		m.newClient = fn
	}
}

// NewManager creates a Manager bound to one source and one session.
func NewManager(client *fetch.Client, def *source.Definition, cookies map[string]string, sess *session.Session, opts ...Option) *Manager {
	m := &Manager{
		client:  client,
		def:     def,
		cookies: cookies,
		sess:    sess,
		logger:  slog.Default(),
	}
	m.newClient = func() *fetch.Client { return client }
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prefetch eagerly downloads every attachment of item idx, in order.
// A file larger than limit bytes is recorded as failed with reason
// "limit" and its content is discarded; a transport failure is recorded
// with the error text. Neither aborts the remaining attachments: the
// returned records always have one entry per URL.
func (m *Manager) Prefetch(ctx context.Context, idx string, urls []string, limit int64) []model.PrefetchRecord {
	records := make([]model.PrefetchRecord, 0, len(urls))
	referer := m.def.DetailReferer(idx)

	for i, u := range urls {
		name, data, err := m.client.Download(ctx, u, m.cookies, referer)
		if err != nil {
			m.logger.Warn("prefetch failed", "idx", idx, "attachment", i, "error", err)
			records = append(records, model.PrefetchRecord{OK: false, Reason: err.Error()})
			continue
		}
		if int64(len(data)) > limit {
			records = append(records, model.PrefetchRecord{OK: false, Name: name, Reason: model.PrefetchReasonLimit})
			continue
		}
		m.sess.StorePrepared(model.AttachmentKey{Idx: idx, Index: i}, model.PreparedFile{Name: name, Content: data})
		records = append(records, model.PrefetchRecord{OK: true, Name: name})
	}
	return records
}

// Prepare downloads a single attachment on demand and stores it under
// key. There is no size cap; the caller asked for exactly this file.
// Concurrent calls for the same key share one download.
func (m *Manager) Prepare(ctx context.Context, key model.AttachmentKey, rawURL string) (model.PreparedFile, error) {
	v, err, _ := m.group.Do(fmt.Sprintf("%s/%d", key.Idx, key.Index), func() (any, error) {
		name, data, err := m.client.Download(ctx, rawURL, m.cookies, m.def.DetailReferer(key.Idx))
		if err != nil {
			return nil, fmt.Errorf("failed to prepare attachment: %w", err)
		}
		f := model.PreparedFile{Name: name, Content: data}
		m.sess.StorePrepared(key, f)
		return f, nil
	})
	if err != nil {
		return model.PreparedFile{}, err
	}
	return v.(model.PreparedFile), nil
}

// BulkResult is one outcome of a bulk selection download.
type BulkResult struct {
	// Idx and Index identify the attachment.
	Idx   string
	Index int

	// URL is the attachment URL.
	URL string

	// File holds the downloaded content on success.
	File model.PreparedFile

	// Err is set when this item failed. Failures never abort the rest
	// of the selection.
	Err error
}

// BulkDownload freshly downloads the attachments of the given rows whose
// URL extension matches the allow-list, reporting each outcome through
// fn. Every item uses an independent client instance so a stuck file
// server cannot poison connection state shared with the crawl.
func (m *Manager) BulkDownload(ctx context.Context, rows []model.DetailResult, exts []string, fn func(BulkResult)) {
	for _, row := range rows {
		referer := m.def.DetailReferer(row.Idx)
		for i, u := range row.Attachments {
			if !MatchesExtension(u, exts) {
				continue
			}
			name, data, err := m.newClient().Download(ctx, u, m.cookies, referer)
			if err != nil {
				m.logger.Warn("bulk download failed", "idx", row.Idx, "attachment", i, "error", err)
				fn(BulkResult{Idx: row.Idx, Index: i, URL: u, Err: err})
				continue
			}
			fn(BulkResult{Idx: row.Idx, Index: i, URL: u, File: model.PreparedFile{Name: name, Content: data}})
		}
	}
}

// MatchesExtension reports whether the URL's path ends with one of the
// allowed extensions, case-insensitively. An empty allow-list matches
// everything.
func MatchesExtension(rawURL string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range exts {
		if strings.HasSuffix(path, "."+strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
