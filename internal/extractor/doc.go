// Package extractor parses the portal's HTML fragments into structured
// data: list rows, normalized article bodies, and attachment URLs.
//
// Design decision: We use goquery for parsing rather than walking the
// x/net/html node tree by hand because:
//  1. The portal is selected by CSS class names, which goquery expresses
//     directly
//  2. It correctly handles the malformed markup these ASP fragments emit
//  3. Removing script/style subtrees before text extraction is a
//     one-liner
//
// All structure-dependent selectors live in this package. Absent markup
// degrades gracefully: rows are skipped, bodies come back empty, and
// attachment lists come back empty, never as errors.
package extractor
