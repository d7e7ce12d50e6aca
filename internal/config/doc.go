// Package config provides configuration structures and utilities for
// megacrawl: the crawl run options with their defaults and validation,
// lenient JSON parsing for pasted cookie/header objects, and the optional
// .megacrawl YAML profile file with per-source cookies and headers.
package config
