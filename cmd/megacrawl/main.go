// Package main provides the entry point for the megacrawl CLI.
//
// Megacrawl collects admissions articles from the Megastudy portal
// (입시 리포트, 입시 뉴스, 교육기관발표자료) and can download the
// attachments of institutional announcements.
//
// Usage:
//
//	megacrawl crawl news --start-page 1 --end-page 3
//	megacrawl crawl archive --prefetch --download
//
// See --help for all available options.
package main

// main is the entry point for megacrawl.
func main() {
	Execute()
}
