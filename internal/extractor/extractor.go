package extractor

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/megacrawl/internal/model"
	"github.com/nao1215/megacrawl/internal/source"
)

// Portal-specific selectors. The markup structure is brittle; keeping
// every selector here means the rest of the system only depends on the
// three extraction contracts below.
const (
	selectorListRow     = ".td_lft"
	selectorListLink    = ".linkTxt"
	selectorViewContent = ".viewContents"
	selectorAttachments = ".commonBoardView--items .viewpage_addfile a[href]"
)

// ExtractList parses a list page fragment into rows.
//
// Each row container is expected to hold a link carrying an inline click
// handler whose first integer argument is the item identifier. Rows
// without an extractable identifier are skipped silently, and duplicate
// identifiers within the page are kept once in first-seen order.
func ExtractList(r io.Reader) ([]model.ListRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	rows := make([]model.ListRow, 0)
	seen := make(map[string]bool)
	doc.Find(selectorListRow).Each(func(_ int, cell *goquery.Selection) {
		link := cell.Find(selectorListLink).First()
		if link.Length() == 0 {
			return
		}
		onclick, _ := link.Attr("onclick")
		idx := IdxFromOnclick(onclick)
		if idx == "" || seen[idx] {
			return
		}
		seen[idx] = true
		rows = append(rows, model.ListRow{
			Idx:   idx,
			Title: CleanSpaces(joinText(cell, " ")),
		})
	})
	return rows, nil
}

// ExtractDetail parses a detail page fragment into normalized body text.
//
// Script and style elements inside each view-content container are
// removed before text extraction. Text is gathered with line breaks at
// node boundaries, normalized per paragraph, and multiple containers are
// joined with a blank line. Missing containers yield an empty body.
func ExtractDetail(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0)
	doc.Find(selectorViewContent).Each(func(_ int, content *goquery.Selection) {
		content.Find("script, style").Remove()
		if norm := NormalizeParagraphs(joinText(content, "\n")); norm != "" {
			parts = append(parts, norm)
		}
	})
	return strings.Join(parts, "\n\n"), nil
}

// ExtractAttachments parses a detail page fragment into absolute
// attachment URLs in document order. Hrefs are resolved against the
// portal base URL. Duplicates are preserved.
func ExtractAttachments(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(source.BaseURL)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0)
	doc.Find(selectorAttachments).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		urls = append(urls, base.ResolveReference(ref).String())
	})
	return urls, nil
}

// joinText collects the trimmed, non-empty text nodes beneath the
// selection and joins them with sep. Unlike Selection.Text, this keeps a
// separator between adjacent elements so titles and body lines do not run
// together.
func joinText(sel *goquery.Selection, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}
