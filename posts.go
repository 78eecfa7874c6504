package main

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

var errPostNotFound = errors.New("post not found")

const (
	statusPublish = "publish"
	statusDraft   = "draft"
	statusPrivate = "private"

	postTypePost = "post"

	// Meta keys starting with this prefix are internal to the CMS
	internalMetaPrefix = "_"
	// Reserved meta key listing comment ids with a verified identity
	openIDCommentsMetaKey = "openid_comments"
	thumbnailMetaKey      = "_thumbnail_id"
	attachedFileMetaKey   = "_wp_attached_file"

	taxonomyCategory   = "category"
	taxonomyPostTag    = "post_tag"
	taxonomyPostFormat = "post_format"
	postFormatPrefix   = "post-format-"

	// Placeholder category name WordPress assigns to uncategorized posts
	noCategoryPlaceholder = "-no category-"

	uploadsBasePath = "/wp-content/uploads/"

	mysqlZeroDatePrefix = "0000-00-00"
)

type wpPost struct {
	ID            int
	Title         string
	Author        string
	Date          string
	DateGmt       string
	Status        string
	Excerpt       string
	Slug          string
	Permalink     string
	Content       string
	Meta          map[string][]string
	Taxonomies    map[string][]string
	FeaturedImage string
}

func wpTimeValid(s string) bool {
	return s != "" && !strings.HasPrefix(s, mysqlZeroDatePrefix)
}

func parseWpTime(s string, loc *time.Location) (time.Time, bool) {
	if !wpTimeValid(s) {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// resolveTime prefers the GMT creation time and falls back to the local
// one when the GMT value is the zero-date sentinel.
func (p *wpPost) resolveTime() (time.Time, bool) {
	if t, ok := parseWpTime(p.DateGmt, time.UTC); ok {
		return t, true
	}
	return parseWpTime(p.Date, time.Local)
}

func (p *wpPost) dirName() string {
	date := "UNDATED"
	if t, ok := p.resolveTime(); ok {
		date = t.Format("2006-01-02")
	}
	slug := p.Slug
	if decoded, err := url.PathUnescape(slug); err == nil {
		slug = decoded
	}
	if slug == "" {
		slug = strconv.Itoa(p.ID)
	}
	return date + "_" + slug
}

// openIDComments collects the comment ids flagged as verified identities
// via the reserved meta key. The value may be stored as repeated rows or
// as one delimited list.
func (p *wpPost) openIDComments() map[int]bool {
	ids := map[int]bool{}
	for _, v := range p.Meta[openIDCommentsMetaKey] {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return !unicode.IsDigit(r) }) {
			if id, err := strconv.Atoi(part); err == nil {
				ids[id] = true
			}
		}
	}
	return ids
}
