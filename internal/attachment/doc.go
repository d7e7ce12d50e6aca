// Package attachment manages attachment downloads for the institutional
// announcement source: eager prefetch during the crawl with a per-file
// size cap, lazy single-file preparation on demand, and the post-crawl
// bulk selection download with an extension allow-list.
//
// Downloads use the synthesized detail-page referer the portal's file
// servers check. Per-file failures are recorded, never propagated: one
// broken attachment must not take down a crawl or a bulk selection.
package attachment
