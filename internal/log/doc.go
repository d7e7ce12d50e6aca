// Package log provides logging with automatic masking of
// session-identifying values, built on top of the standard slog package.
//
// The crawler is driven by cookies and headers the user copies out of a
// logged-in browser session. Those values routinely end up as log
// attributes on request failures, and a shared log must never leak
// them.
//
// # Masking
//
// The SecureHandler masks attribute values before they reach the
// underlying handler:
//   - HTTP headers (Authorization, Cookie, Set-Cookie)
//   - Session identifiers, including classic ASP session cookies
//   - Cookie-header shaped strings, whatever key they appear under
//   - Generic credentials (passwords, tokens, secrets)
//
// Even in verbose mode, masked values stay masked.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//
//	logger.Warn("request failed",
//	    "cookie", "NID_AUT=abc; NID_SES=def", // masked
//	    "url", listURL,
//	)
//
//	slog.SetDefault(logger)
package log
