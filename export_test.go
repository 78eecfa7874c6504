package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededTestApp(t *testing.T) *wpExport {
	app := &wpExport{
		cfg: createDefaultTestConfig(t),
	}
	require.NoError(t, app.initConfig())
	require.NoError(t, app.initDatabase())
	seedTestSite(t, app)
	return app
}

func seedTestSite(t *testing.T, app *wpExport) {
	t.Helper()
	db := app.db
	exec := func(query string, args ...any) {
		_, err := db.exec(query, args...)
		require.NoError(t, err)
	}
	posts := fmt.Sprintf("insert into %s (ID, post_author, post_date, post_date_gmt, post_title, post_excerpt, post_status, post_name, post_type, post_content, guid) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", db.table("posts"))

	exec(fmt.Sprintf("insert into %s (ID, user_login, display_name) values (1, 'jane', 'Jane Doe')", db.table("users")))

	exec(posts, 1, 1, "2021-03-04 11:00:00", "2021-03-04 10:00:00", "Hello &amp; World", "", statusPublish, "hello-world", postTypePost, "First!", "https://example.com/2021/03/hello-world/")
	exec(posts, 2, 1, "0000-00-00 00:00:00", "0000-00-00 00:00:00", "Drafty", "", statusDraft, "drafty", postTypePost, "Soon", "https://example.com/?p=2")
	// Excluded: wrong type, wrong status
	exec(posts, 3, 1, "2021-03-04 11:00:00", "2021-03-04 10:00:00", "About", "", statusPublish, "about", "page", "About me", "https://example.com/about/")
	exec(posts, 4, 1, "2021-03-04 11:00:00", "2021-03-04 10:00:00", "Gone", "", "trash", "gone", postTypePost, "Bye", "https://example.com/gone/")

	meta := fmt.Sprintf("insert into %s (post_id, meta_key, meta_value) values (?, ?, ?)", db.table("postmeta"))
	exec(meta, 1, "color", "blue")
	exec(meta, 1, "empty_field", "")
	exec(meta, 1, openIDCommentsMetaKey, "101")
	exec(meta, 1, thumbnailMetaKey, "10")
	exec(meta, 10, attachedFileMetaKey, "2021/03/pic.jpg")

	comments := fmt.Sprintf("insert into %s (comment_ID, comment_post_ID, comment_author, comment_author_url, comment_date_gmt, comment_content, comment_type) values (?, ?, ?, ?, ?, ?, ?)", db.table("comments"))
	exec(comments, 101, 1, "Commenter", "https://commenter.example", "2021-03-05 08:30:00", "Nice post!", "")
	exec(comments, 102, 1, "Some Site", "https://some.site", "2021-03-05 09:30:00", "[...] linked here [...]", "pingback")

	exec(fmt.Sprintf("insert into %s (term_id, name, slug) values (1, 'News', 'news'), (2, 'Updates', 'updates')", db.table("terms")))
	exec(fmt.Sprintf("insert into %s (term_taxonomy_id, term_id, taxonomy) values (1, 1, 'category'), (2, 2, 'post_tag')", db.table("term_taxonomy")))
	exec(fmt.Sprintf("insert into %s (object_id, term_taxonomy_id) values (1, 1), (1, 2)", db.table("term_relationships")))
}

func readZipEntries(t *testing.T, zipPath string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer r.Close()
	entries := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = string(content)
	}
	return entries
}

func Test_runExport(t *testing.T) {
	app := newSeededTestApp(t)
	root := t.TempDir()

	zipPath, cleanup, err := app.runExport(root)
	require.NoError(t, err)

	entries := readZipEntries(t, zipPath)
	require.Len(t, entries, 4)
	require.Contains(t, entries, "2021-03-04_hello-world/index.md")
	require.Contains(t, entries, "2021-03-04_hello-world/comment_comment_101.md")
	require.Contains(t, entries, "2021-03-04_hello-world/comment_pingback_102.md")
	require.Contains(t, entries, "UNDATED_drafty/index.md")

	// Index document of the published post
	metaBlock, body := splitDocument(entries["2021-03-04_hello-world/index.md"])
	meta, err := parseDocMeta([]byte(metaBlock))
	require.NoError(t, err)
	title, _ := meta.Get("title")
	assert.Equal(t, "Hello & World", title)
	author, _ := meta.Get("author")
	assert.Equal(t, "Jane Doe", author)
	url, _ := meta.Get("url")
	assert.Equal(t, "/2021/03/hello-world/", url)
	image, _ := meta.Get("featured_image")
	assert.Equal(t, "/wp-content/uploads/2021/03/pic.jpg", image)
	tags, _ := meta.Get("tags")
	assert.Equal(t, []any{"News", "Updates"}, tags)
	custom, _ := meta.Get("custom")
	assert.Equal(t, map[string]any{"color": []any{"blue"}}, custom)
	_, hasDraft := meta.Get("draft")
	assert.False(t, hasDraft)
	assert.Equal(t, "<p>First!</p>", body)

	// Draft post: no date, no comments, marked as draft
	metaBlock, _ = splitDocument(entries["UNDATED_drafty/index.md"])
	meta, err = parseDocMeta([]byte(metaBlock))
	require.NoError(t, err)
	_, hasDate := meta.Get("date")
	assert.False(t, hasDate)
	isDraft, _ := meta.Get("draft")
	assert.Equal(t, true, isDraft)

	// Verified-identity flag on the regular comment only
	metaBlock, _ = splitDocument(entries["2021-03-04_hello-world/comment_comment_101.md"])
	meta, err = parseDocMeta([]byte(metaBlock))
	require.NoError(t, err)
	openID, ok := meta.Get("openID")
	require.True(t, ok)
	assert.Equal(t, true, openID)

	metaBlock, _ = splitDocument(entries["2021-03-04_hello-world/comment_pingback_102.md"])
	meta, err = parseDocMeta([]byte(metaBlock))
	require.NoError(t, err)
	_, hasOpenID := meta.Get("openID")
	assert.False(t, hasOpenID)

	// Cleanup removes tree and archive
	cleanup()
	left, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.NoFileExists(t, zipPath)
}

func Test_runExport_withoutComments(t *testing.T) {
	app := newSeededTestApp(t)
	app.cfg.Export.Comments = false

	zipPath, cleanup, err := app.runExport(t.TempDir())
	require.NoError(t, err)
	defer cleanup()

	entries := readZipEntries(t, zipPath)
	assert.Len(t, entries, 2)
	assert.Contains(t, entries, "2021-03-04_hello-world/index.md")
	assert.Contains(t, entries, "UNDATED_drafty/index.md")
}

func Test_runExport_archiveFailureCleansUp(t *testing.T) {
	app := newSeededTestApp(t)
	// Collides with the output tree, so creating the archive fails
	app.cfg.Export.ArchiveName = "files"
	root := t.TempDir()

	_, cleanup, err := app.runExport(root)
	require.Error(t, err)

	cleanup()
	left, readErr := os.ReadDir(root)
	require.NoError(t, readErr)
	assert.Empty(t, left)
}

func Test_runExport_roundTripStability(t *testing.T) {
	app := newSeededTestApp(t)

	zipPath, cleanup, err := app.runExport(t.TempDir())
	require.NoError(t, err)
	defer cleanup()

	for name, doc := range readZipEntries(t, zipPath) {
		metaBlock, _ := splitDocument(doc)
		meta, err := parseDocMeta([]byte(metaBlock))
		require.NoError(t, err, name)
		remarshaled, err := meta.marshal()
		require.NoError(t, err, name)
		assert.Equal(t, metaBlock, string(remarshaled), name)
	}
}

func Test_runExport_invalidRoot(t *testing.T) {
	app := newSeededTestApp(t)
	_, cleanup, err := app.runExport(filepath.Join(t.TempDir(), "missing"))
	cleanup()
	assert.Error(t, err)
}
