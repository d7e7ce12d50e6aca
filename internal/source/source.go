package source

import (
	"net/url"
	"strconv"
)

// BaseURL is the portal's base host. All list/detail endpoints and
// relative attachment hrefs resolve against it.
const BaseURL = "https://www.megastudy.net"

// Kind identifies one of the supported portal sections.
type Kind int

// Supported portal sections.
const (
	// KindAdmissionsReport is the 입시 리포트 (admissions report) section.
	KindAdmissionsReport Kind = iota

	// KindAdmissionsNews is the 입시 뉴스 (admissions news) section.
	KindAdmissionsNews

	// KindInstitutional is the 교육기관발표자료 (institutional announcement)
	// section. It is the only section that carries attachments.
	KindInstitutional
)

// String returns the Korean display name the portal uses for the section.
func (k Kind) String() string {
	switch k {
	case KindAdmissionsReport:
		return "입시 리포트"
	case KindAdmissionsNews:
		return "입시 뉴스"
	case KindInstitutional:
		return "교육기관발표자료"
	default:
		return "unknown"
	}
}

// Alias returns the ASCII alias accepted on the command line.
func (k Kind) Alias() string {
	switch k {
	case KindAdmissionsReport:
		return "report"
	case KindAdmissionsNews:
		return "news"
	case KindInstitutional:
		return "archive"
	default:
		return "unknown"
	}
}

// SupportsAttachments reports whether the section exposes attachments on
// its detail pages. Attachment-related configuration is only valid for
// kinds where this returns true.
func (k Kind) SupportsAttachments() bool {
	return k == KindInstitutional
}

// Definition describes one portal section: its endpoints, the referer the
// portal expects, and the query parameters its list and detail endpoints
// take. Definitions are immutable and perform no network calls.
type Definition struct {
	// Kind is the section this definition belongs to.
	Kind Kind

	// ListURL is the paginated list endpoint (returns an HTML fragment).
	ListURL string

	// DetailURL is the item detail endpoint (returns an HTML fragment).
	DetailURL string

	// RefererURL is the generic referer sent with list/detail requests.
	RefererURL string

	// ViewPageURL is the human-facing detail page. Only set for the
	// institutional section, where the file server checks a referer
	// derived from it.
	ViewPageURL string

	// categorized indicates the endpoint takes the caty/cat2 category
	// filter parameters (always sent empty).
	categorized bool

	// pinnedDetailPage, when non-empty, overrides the page parameter on
	// detail requests. The institutional section always sends page=1.
	pinnedDetailPage string
}

// ListParams builds the query parameters for a list request at the given
// page. Search filters are always sent empty; the portal requires their
// presence.
func (d *Definition) ListParams(page int) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if d.categorized {
		v.Set("caty", "")
		v.Set("cat2", "")
	}
	v.Set("searchType", "")
	v.Set("searchWord", "")
	return v
}

// DetailParams builds the query parameters for a detail request for item
// idx in the context of the given list page.
func (d *Definition) DetailParams(idx string, page int) url.Values {
	v := url.Values{}
	v.Set("idx", idx)
	if d.categorized {
		v.Set("caty", "")
		v.Set("cat2", "")
	}
	if d.pinnedDetailPage != "" {
		v.Set("page", d.pinnedDetailPage)
	} else {
		v.Set("page", strconv.Itoa(page))
	}
	v.Set("searchType", "")
	v.Set("searchWord", "")
	return v
}

// DetailReferer returns the referer to send when downloading attachments
// of the item idx. The institutional file server rejects the generic list
// referer, so that section synthesizes its view page URL with the item
// identifier appended; every other section uses the generic referer.
func (d *Definition) DetailReferer(idx string) string {
	if d.Kind == KindInstitutional && d.ViewPageURL != "" {
		return d.ViewPageURL + "?idx=" + url.QueryEscape(idx)
	}
	return d.RefererURL
}

// definitions holds the registry, one entry per supported section.
var definitions = map[Kind]*Definition{
	KindAdmissionsReport: {
		Kind:        KindAdmissionsReport,
		ListURL:     BaseURL + "/Entinfo/news/news_list_ax.asp",
		DetailURL:   BaseURL + "/Entinfo/news/news_view_ax.asp",
		RefererURL:  BaseURL + "/Entinfo/news/news_list.asp",
		categorized: true,
	},
	KindAdmissionsNews: {
		Kind:        KindAdmissionsNews,
		ListURL:     BaseURL + "/Entinfo/ipsi_news/news_list_ax.asp",
		DetailURL:   BaseURL + "/Entinfo/ipsi_news/news_view_ax.asp",
		RefererURL:  BaseURL + "/Entinfo/ipsi_news/news_list.asp",
		categorized: true,
	},
	KindInstitutional: {
		Kind:             KindInstitutional,
		ListURL:          BaseURL + "/entinfo/g_archive/list_ax.asp",
		DetailURL:        BaseURL + "/entinfo/g_archive/view_ax.asp",
		RefererURL:       BaseURL + "/entinfo/g_archive/list.asp",
		ViewPageURL:      BaseURL + "/entinfo/g_archive/view.asp",
		pinnedDetailPage: "1",
	},
}

// Get returns the definition for the given kind.
func Get(kind Kind) *Definition {
	return definitions[kind]
}

// Lookup resolves a user-supplied source name to its definition. Both the
// Korean display name and the ASCII alias are accepted.
func Lookup(name string) (*Definition, bool) {
	for _, d := range definitions {
		if name == d.Kind.String() || name == d.Kind.Alias() {
			return d, true
		}
	}
	return nil, false
}

// All returns every definition in a fixed display order.
func All() []*Definition {
	return []*Definition{
		definitions[KindAdmissionsReport],
		definitions[KindAdmissionsNews],
		definitions[KindInstitutional],
	}
}
