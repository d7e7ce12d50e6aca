// Package crawler drives the page-by-page walk over a portal section.
//
// The crawler is strictly sequential: pages ascend from the start page
// to the end page, rows within a page are processed in list order, and
// a politeness delay separates consecutive requests. There is exactly
// one in-flight request at any time.
//
// Results stream to an Emitter as they are collected and accumulate in
// a session.Session. A failed list or detail request halts the run;
// rows collected before the failure remain in the session. Attachment
// prefetch failures are recorded on the row and never halt the run.
//
// Example usage:
//
//	client := fetch.New(cfg.Headers)
//	c := crawler.New(client, crawler.WithEmitter(emitter))
//	if err := c.Crawl(ctx, cfg, sess); err != nil {
//		// partial results are still in sess
//	}
package crawler
