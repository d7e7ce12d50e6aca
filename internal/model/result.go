package model

// ListRow is a single entry parsed from a list page.
//
// Idx is the portal's internal numeric identifier, extracted from the
// inline onclick handler of the row's link. It is unique within one list
// page; across pages the portal may repeat items and we do not filter
// those repeats.
type ListRow struct {
	// Idx is the portal-assigned item identifier.
	Idx string `json:"idx"`

	// Title is the whitespace-normalized row text.
	Title string `json:"title"`
}

// DetailResult is a fully fetched item: the list row plus the article body
// and, for the institutional announcement source, its attachments.
//
// Body and Attachments are derived from the detail page markup and are
// read-only once built.
type DetailResult struct {
	// Idx is the portal-assigned item identifier.
	Idx string `json:"idx"`

	// Title is the whitespace-normalized row title.
	Title string `json:"title"`

	// Body is the normalized multi-paragraph article text.
	Body string `json:"body"`

	// Attachments holds absolute attachment URLs in document order.
	// Nil for sources without attachment support.
	Attachments []string `json:"attachments,omitempty"`

	// Prefetched records the outcome of eager attachment prefetch,
	// one entry per attachment in the same order. Nil when prefetch
	// was not requested.
	Prefetched []PrefetchRecord `json:"prefetched,omitempty"`
}

// PrefetchReasonLimit is recorded when a prefetched attachment exceeded
// the configured size cap and its content was discarded.
const PrefetchReasonLimit = "limit"

// PrefetchRecord is the outcome of downloading one attachment during
// eager prefetch.
type PrefetchRecord struct {
	// OK reports whether the attachment was downloaded and stored.
	OK bool `json:"ok"`

	// Name is the sanitized filename when one could be determined.
	Name string `json:"name,omitempty"`

	// Reason explains a failure: PrefetchReasonLimit for the size cap,
	// otherwise the transport error text.
	Reason string `json:"reason,omitempty"`
}

// AttachmentKey identifies one attachment of one item. It is the key for
// prepared files held in session state.
type AttachmentKey struct {
	// Idx is the owning item's identifier.
	Idx string

	// Index is the attachment's position within the item's detail page,
	// in order of appearance. Stable for a single detail fetch.
	Index int
}

// PreparedFile is an attachment whose bytes have been downloaded and are
// ready for retrieval.
type PreparedFile struct {
	// Name is the sanitized filename.
	Name string

	// Content is the file body.
	Content []byte
}
