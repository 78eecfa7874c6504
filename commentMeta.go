package main

import "time"

// buildCommentMeta maps one comment onto the front-matter mapping of
// its document. The author name is exported as stored on the comment,
// the account linkage in the CMS is unreliable for commenters. Unlike
// posts there is no local-time fallback for the date.
func buildCommentMeta(c *wpComment, verified map[int]bool) *docMeta {
	meta := newDocMeta()
	meta.Set("id", c.ID)
	meta.Set("type", c.fileType())
	if t, ok := parseWpTime(c.DateGmt, time.UTC); ok {
		meta.Set("date", t.Format(time.RFC3339))
	}
	meta.Set("author", c.Author)
	meta.Set("authorUrl", c.AuthorURL)
	if verified[c.ID] {
		meta.Set("openID", true)
	}
	meta.declutter()
	return meta
}
