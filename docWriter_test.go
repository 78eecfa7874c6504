package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_writeDocument(t *testing.T) {
	meta := newDocMeta()
	meta.Set("id", 1)
	meta.Set("title", "Test")

	dir := filepath.Join(t.TempDir(), "2021-03-04_test")
	require.NoError(t, writeDocument(meta, "Body text", dir, "index.md"))

	content, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 1,\n  \"title\": \"Test\"\n}\n---\nBody text", string(content))

	// Writing into an existing directory is fine
	require.NoError(t, writeDocument(meta, "Other", dir, "comment_comment_5.md"))
	assert.FileExists(t, filepath.Join(dir, "comment_comment_5.md"))
}
