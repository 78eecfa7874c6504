package main

import (
	"os"
	"path/filepath"

	"github.com/timmc/wordpress-exporter/pkgs/bufferpool"
)

// writeDocument renders the metadata block, the separator line and the
// body into dir/filename, creating missing parent directories. A failed
// metadata serialization is returned to the caller and must abort the
// export, a half-written document would silently corrupt the archive.
func writeDocument(meta *docMeta, body, dir, filename string) error {
	metaJSON, err := meta.marshal()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	buf := bufferpool.Get()
	defer bufferpool.Put(buf)
	buf.Write(metaJSON)
	buf.WriteByte('\n')
	buf.WriteString(metaSeparator)
	buf.WriteByte('\n')
	buf.WriteString(body)
	return os.WriteFile(filepath.Join(dir, filename), buf.Bytes(), 0666)
}
