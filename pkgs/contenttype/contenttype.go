package contenttype

// Content types this tool serves or produces

const (
	CharsetUtf8Suffix = "; charset=utf-8"

	JSON     = "application/json"
	Markdown = "text/markdown"
	Text     = "text/plain"
	ZIP      = "application/zip"

	JSONUTF8 = JSON + CharsetUtf8Suffix
	TextUTF8 = Text + CharsetUtf8Suffix
)
