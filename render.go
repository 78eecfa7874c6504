package main

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/timmc/wordpress-exporter/pkgs/bufferpool"
)

// contentFilter transforms a post body on its way into the export. The
// post is passed explicitly, filters must not rely on ambient state.
type contentFilter func(a *wpExport, p *wpPost, content string) string

func (a *wpExport) initRender() {
	a.initRenderOnce.Do(func() {
		cfg := a.cfg.Render
		if cfg == nil {
			cfg = &configRender{}
		}
		if cfg.Markdown {
			a.md = goldmark.New(
				goldmark.WithRendererOptions(
					html.WithUnsafe(),
				),
				goldmark.WithParserOptions(
					parser.WithAutoHeadingID(),
				),
				goldmark.WithExtensions(
					extension.Table,
					extension.Strikethrough,
					extension.Footnote,
					extension.Linkify,
				),
			)
			a.contentFilters = append(a.contentFilters, filterMarkdown)
		} else if cfg.Autop {
			a.contentFilters = append(a.contentFilters, filterAutop)
		}
		if cfg.RelativeUrls {
			a.contentFilters = append(a.contentFilters, filterRelativeURLs)
		}
	})
}

func (a *wpExport) renderContent(p *wpPost) string {
	a.initRender()
	content := p.Content
	for _, filter := range a.contentFilters {
		content = filter(a, p, content)
	}
	return content
}

func filterMarkdown(a *wpExport, _ *wpPost, content string) string {
	buf := bufferpool.Get()
	defer bufferpool.Put(buf)
	if err := a.md.Convert([]byte(content), buf); err != nil {
		return content
	}
	return buf.String()
}

var autopBlockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "ul": true,
}

// filterAutop mimics the host CMS paragraph filter: blank-line
// separated chunks that aren't already block-level markup get wrapped
// in <p> tags.
func filterAutop(_ *wpExport, _ *wpPost, content string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	chunks := strings.Split(normalized, "\n\n")
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		if startsWithBlockTag(trimmed) {
			out = append(out, trimmed)
			continue
		}
		out = append(out, "<p>"+trimmed+"</p>")
	}
	return strings.Join(out, "\n")
}

func startsWithBlockTag(chunk string) bool {
	if !strings.HasPrefix(chunk, "<") {
		return false
	}
	rest := chunk[1:]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end < 0 {
		end = len(rest)
	}
	return autopBlockTags[strings.ToLower(rest[:end])]
}

// filterRelativeURLs rewrites site-absolute link and image URLs in the
// rendered body to site-relative ones. The body stays untouched when
// nothing matches.
func filterRelativeURLs(a *wpExport, _ *wpPost, content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	base := a.cfg.Server.PublicAddress
	changed := false
	rewrite := func(item *goquery.Selection, attr string) {
		if value, ok := item.Attr(attr); ok && strings.HasPrefix(value, base+"/") {
			item.SetAttr(attr, strings.TrimPrefix(value, base))
			changed = true
		}
	}
	doc.Find("a[href]").Each(func(_ int, item *goquery.Selection) {
		rewrite(item, "href")
	})
	doc.Find("img[src]").Each(func(_ int, item *goquery.Selection) {
		rewrite(item, "src")
	})
	if !changed {
		return content
	}
	rewritten, err := doc.Find("body").Html()
	if err != nil {
		return content
	}
	return rewritten
}
