package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/timmc/wordpress-exporter/pkgs/bufferpool"
)

// metaSeparator is the line dividing the metadata block from the body.
const metaSeparator = "---"

// docMeta is an ordered metadata mapping. Keys keep their insertion
// order, so a post always serializes the same way within one run.
type docMeta struct {
	keys   []string
	values map[string]any
}

func newDocMeta() *docMeta {
	return &docMeta{values: map[string]any{}}
}

func (m *docMeta) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *docMeta) Get(key string) (any, bool) {
	value, ok := m.values[key]
	return value, ok
}

func (m *docMeta) Len() int {
	return len(m.keys)
}

// declutter drops every key with an empty value. Numbers always stay,
// zero included.
func (m *docMeta) declutter() {
	kept := m.keys[:0]
	for _, key := range m.keys {
		if emptyMetaValue(m.values[key]) {
			delete(m.values, key)
			continue
		}
		kept = append(kept, key)
	}
	m.keys = kept
}

func emptyMetaValue(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case bool:
		return !value
	case []string:
		return len(value) == 0
	case []any:
		return len(value) == 0
	case map[string][]string:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	}
	return false
}

// marshal renders the mapping as pretty-printed JSON with two-space
// indentation, unescaped HTML and slashes, keys in insertion order.
func (m *docMeta) marshal() ([]byte, error) {
	if len(m.keys) == 0 {
		return []byte("{}"), nil
	}
	buf := bufferpool.Get()
	defer bufferpool.Put(buf)
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  ")
		keyJSON, err := encodeJSONValue(key, "  ")
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteString(": ")
		valueJSON, err := encodeJSONValue(m.values[key], "  ")
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteString("\n}")
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

func encodeJSONValue(v any, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode appends a newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// parseDocMeta reads a metadata block back into an ordered mapping.
// Numbers are kept as json.Number so re-serializing them is lossless.
func parseDocMeta(data []byte) (*docMeta, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, errors.New("metadata block is not an object")
	}
	m := newDocMeta()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("invalid metadata key")
		}
		var value any
		if err = dec.Decode(&value); err != nil {
			return nil, err
		}
		m.Set(key, value)
	}
	if _, err = dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

// splitDocument separates a two-part document into its metadata block
// and body.
func splitDocument(doc string) (meta, body string) {
	sep := "\n" + metaSeparator + "\n"
	if i := strings.Index(doc, sep); i >= 0 {
		return doc[:i], doc[i+len(sep):]
	}
	return "", doc
}
