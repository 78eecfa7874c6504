package main

import (
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
)

var textPolicy = bluemonday.StrictPolicy()

// buildPostMeta maps one loaded post record onto the front-matter
// mapping of its index document. Keys with empty values get dropped at
// the end, so optional fields can be set unconditionally.
func (a *wpExport) buildPostMeta(p *wpPost) *docMeta {
	meta := newDocMeta()
	meta.Set("title", html.UnescapeString(p.Title))
	meta.Set("id", p.ID)
	meta.Set("author", p.Author)
	if t, ok := p.resolveTime(); ok {
		meta.Set("date", t.Format(time.RFC3339))
	}
	meta.Set("excerpt", strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(p.Excerpt))))
	if p.Status == statusDraft || p.Status == statusPrivate {
		meta.Set("draft", true)
	}
	if p.Status == statusPrivate {
		meta.Set("private", true)
	}
	meta.Set("url", a.relPostURL(p.Permalink))
	meta.Set("featured_image", p.FeaturedImage)
	meta.Set("custom", customFields(p.Meta))
	// Categories and free tags merge into "tags", the post format
	// taxonomy becomes "format", every other taxonomy keeps its name.
	if format := p.Taxonomies[taxonomyPostFormat]; len(format) > 0 {
		meta.Set("format", strings.TrimPrefix(format[0], postFormatPrefix))
	}
	tags := append(append([]string{}, p.Taxonomies[taxonomyCategory]...), p.Taxonomies[taxonomyPostTag]...)
	tags = lo.Uniq(lo.Filter(tags, func(tag string, _ int) bool {
		return tag != noCategoryPlaceholder
	}))
	meta.Set("tags", tags)
	for _, taxonomy := range sortedKeys(p.Taxonomies) {
		switch taxonomy {
		case taxonomyCategory, taxonomyPostTag, taxonomyPostFormat:
			continue
		}
		meta.Set(taxonomy, p.Taxonomies[taxonomy])
	}
	meta.declutter()
	return meta
}

// customFields filters the raw meta rows down to user-facing custom
// fields. Values stay arrays even when there is only one element.
func customFields(meta map[string][]string) map[string][]string {
	custom := map[string][]string{}
	for key, values := range meta {
		if strings.HasPrefix(key, internalMetaPrefix) || key == openIDCommentsMetaKey {
			continue
		}
		if len(values) == 0 || (len(values) == 1 && values[0] == "") {
			continue
		}
		custom[key] = values
	}
	return custom
}

// relPostURL strips the site base address from a permalink and applies
// percent-decoding.
func (a *wpExport) relPostURL(link string) string {
	rel := strings.TrimPrefix(link, a.cfg.Server.PublicAddress)
	if rel == "" {
		rel = "/"
	}
	if decoded, err := url.PathUnescape(rel); err == nil {
		rel = decoded
	}
	return rel
}
