package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// runExport performs one full export: build the output tree for every
// postable record, then pack it into a single archive. The returned
// cleanup removes the temporary tree together with the archive and must
// run on every path, success or failure.
func (a *wpExport) runExport(root string) (zipPath string, cleanup func(), err error) {
	cleanup = func() {}
	tmp, err := os.MkdirTemp(defaultIfEmpty(root, a.cfg.Export.Dir), "wordpress-export-")
	if err != nil {
		return "", cleanup, err
	}
	cleanup = func() { _ = os.RemoveAll(tmp) }
	tree := filepath.Join(tmp, "files")
	if err = os.MkdirAll(tree, 0777); err != nil {
		return "", cleanup, err
	}
	ids, err := a.db.postIDsToExport()
	if err != nil {
		return "", cleanup, err
	}
	for _, id := range ids {
		if err = a.exportPost(id, tree); err != nil {
			return "", cleanup, fmt.Errorf("export post %d: %w", id, err)
		}
	}
	zipPath = filepath.Join(tmp, a.cfg.Export.ArchiveName)
	if err = zipDir(tree, zipPath); err != nil {
		return "", cleanup, err
	}
	a.info("Export finished", "posts", len(ids))
	return zipPath, cleanup, nil
}

func (a *wpExport) exportPost(id int, tree string) error {
	p, err := a.db.getPostExport(id)
	if err != nil {
		return err
	}
	dir := filepath.Join(tree, p.dirName())
	if err = writeDocument(a.buildPostMeta(p), a.renderContent(p), dir, "index.md"); err != nil {
		return err
	}
	if !a.cfg.Export.Comments {
		return nil
	}
	comments, err := a.db.getCommentsForPost(id)
	if err != nil {
		return err
	}
	verified := p.openIDComments()
	for _, c := range comments {
		filename := fmt.Sprintf("comment_%s_%d.md", c.fileType(), c.ID)
		if err = writeDocument(buildCommentMeta(c, verified), c.Content, dir, filename); err != nil {
			return err
		}
	}
	return nil
}
