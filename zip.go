package main

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/flate"
)

// zipFlushEvery bounds the amount of buffered archive data: after this
// many files the writer flushes to disk. Tooling that inspects archives
// mid-build relies on this cadence.
const zipFlushEvery = 250

type zipBuilder struct {
	f       *os.File
	zw      *zip.Writer
	files   int
	flushes int
}

func newZipBuilder(dest string) (*zipBuilder, error) {
	f, err := os.Create(dest)
	if err != nil {
		return nil, err
	}
	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
	return &zipBuilder{f: f, zw: zw}, nil
}

// addTree walks dir and appends every regular file, keeping paths
// relative to the tree root. Directories get no entries of their own
// and symbolic links are not followed.
func (z *zipBuilder) addTree(dir string) error {
	return z.addDir(dir, "")
}

func (z *zipBuilder) addDir(dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := path.Join(prefix, entry.Name())
		full := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			if err := z.addDir(full, name); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := z.addFile(full, name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (z *zipBuilder) addFile(src, name string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	w, err := z.zw.Create(name)
	if err != nil {
		return err
	}
	if _, err = io.Copy(w, in); err != nil {
		return err
	}
	z.files++
	if z.files%zipFlushEvery == 0 {
		return z.flush()
	}
	return nil
}

func (z *zipBuilder) flush() error {
	if err := z.zw.Flush(); err != nil {
		return err
	}
	if err := z.f.Sync(); err != nil {
		return err
	}
	z.flushes++
	return nil
}

func (z *zipBuilder) Close() error {
	if err := z.zw.Close(); err != nil {
		_ = z.f.Close()
		return err
	}
	return z.f.Close()
}

// zipDir packs the directory tree at src into a new archive at dest.
func zipDir(src, dest string) error {
	z, err := newZipBuilder(dest)
	if err != nil {
		return err
	}
	if err = z.addTree(src); err != nil {
		_ = z.Close()
		return err
	}
	return z.Close()
}
