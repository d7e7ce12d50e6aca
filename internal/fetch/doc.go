// Package fetch wraps net/http for the portal's endpoints: list and
// detail fragment requests with fixed timeouts, and attachment downloads
// with filename derivation from response headers.
//
// The wrapper holds the caller-supplied header set and TLS policy;
// cookies and the Referer override are per call. It never retries, and
// it reports non-2xx responses as StatusError so callers can decide
// whether a failure halts the crawl or is recorded and skipped.
//
// Design decision: Response fragments are decoded to UTF-8 through
// x/net/html/charset because parts of the portal still serve EUC-KR.
// Binary downloads are returned untouched.
package fetch
