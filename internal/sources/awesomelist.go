// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/awindex/awindex/internal/fetch"
	"github.com/awindex/awindex/pkg/types"
)

// AwesomeListAdapter harvests a curated markdown list ("awesome list").
// Every top-level bullet item that links somewhere becomes one record; the
// heading hierarchy above the item becomes its category path.
type AwesomeListAdapter struct {
	Fetcher fetch.Fetcher
}

// Name returns the adapter identifier.
func (a *AwesomeListAdapter) Name() string { return "awesome-list" }

// Harvest fetches the markdown document at src.URL and parses it.
func (a *AwesomeListAdapter) Harvest(ctx context.Context, src types.Source, sum *Summary, w io.Writer) error {
	body, err := a.Fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return err
	}
	ParseAwesomeList([]byte(body), src, sum)
	fmt.Fprintf(w, "%s: %d records, %d ignored\n", src.Name, sum.NumRecords, sum.NumIgnored)
	return nil
}

var reHTMLComment = regexp.MustCompile(`(?s)<!--.*?-->`)

// listWalk carries the walk state: the heading path indexed by heading
// level (index 0 is the document H1) and the record source. Text is only
// captured while rendering a heading or a list item, so prose between
// items never leaks into titles.
type listWalk struct {
	src      types.Source
	source   []byte
	headings []string
}

// itemBuilder accumulates one bullet item's rendered text and first link.
type itemBuilder struct {
	text strings.Builder
	url  string
}

// ParseAwesomeList walks the parsed block structure of a markdown document
// and appends one record per linked top-level bullet item to sum. Items
// with no link, an empty link, or a pure fragment link ("#...") are
// counted as ignored: they are section anchors or plain prose, not entries.
func ParseAwesomeList(source []byte, src types.Source, sum *Summary) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	walk := &listWalk{src: src, source: source}
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			walk.enterHeading(n)
		case *ast.List:
			walk.walkList(n, sum)
		}
		// Paragraphs, block quotes, and raw HTML between lists carry no
		// entries and are not rendered at all.
	}
}

// enterHeading records the heading text at its level, truncating the path
// so a heading replaces its same-level and deeper ancestors.
func (lw *listWalk) enterHeading(h *ast.Heading) {
	rendered := &itemBuilder{}
	lw.renderInline(h, rendered)
	title := collapse(rendered.text.String())

	if h.Level-1 < len(lw.headings) {
		lw.headings[h.Level-1] = title
		lw.headings = lw.headings[:h.Level]
	} else {
		lw.headings = append(lw.headings, title)
	}
}

// category joins the heading path below the document title.
func (lw *listWalk) category() string {
	if len(lw.headings) < 2 {
		return ""
	}
	return strings.Join(lw.headings[1:], " > ")
}

// walkList visits each top-level bullet item of a list.
func (lw *listWalk) walkList(list *ast.List, sum *Summary) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		li, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}
		lw.walkListItem(li, sum)
	}
}

// walkListItem renders one bullet item and yields a record when the item
// carries a usable link.
func (lw *listWalk) walkListItem(li *ast.ListItem, sum *Summary) {
	b := &itemBuilder{}
	for child := li.FirstChild(); child != nil; child = child.NextSibling() {
		// A nested list inside a bullet never starts a record of its own.
		if _, isList := child.(*ast.List); isList {
			continue
		}
		lw.renderInline(child, b)
	}

	title := collapse(b.text.String())
	if title == "" || b.url == "" || strings.HasPrefix(b.url, "#") {
		sum.NumIgnored++
		return
	}

	rec := &types.IndexRecord{
		Title:     title,
		URL:       b.url,
		Source:    lw.src.Name,
		SourceURL: lw.src.Homepage,
	}
	if path := lw.category(); path != "" {
		rec.Categories = []string{path}
	}
	sum.Add(rec)
}

// renderInline appends n's inline text to b. The first markdown link or
// autolink target seen becomes the item URL; later links keep only their
// anchor text. Raw HTML spans and blocks contribute nothing, which also
// strips HTML comments such as "<!-- omit in toc -->".
func (lw *listWalk) renderInline(n ast.Node, b *itemBuilder) {
	switch t := n.(type) {
	case *ast.Text:
		b.text.Write(t.Segment.Value(lw.source))
		if t.SoftLineBreak() || t.HardLineBreak() {
			b.text.WriteByte(' ')
		}
		return
	case *ast.String:
		b.text.Write(t.Value)
		return
	case *ast.Link:
		if b.url == "" {
			b.url = string(t.Destination)
		}
	case *ast.AutoLink:
		if b.url == "" {
			b.url = string(t.URL(lw.source))
		}
		b.text.Write(t.Label(lw.source))
		return
	case *ast.RawHTML, *ast.HTMLBlock:
		return
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		lw.renderInline(child, b)
	}
}

// collapse strips HTML comments and collapses runs of whitespace.
func collapse(s string) string {
	s = reHTMLComment.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
