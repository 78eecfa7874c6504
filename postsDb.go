package main

import (
	"database/sql"
	"fmt"
	"path"

	"github.com/spf13/cast"
)

func (db *database) postIDsToExport() ([]int, error) {
	rows, err := db.query(fmt.Sprintf(
		"select ID from %s where post_status in (@s1, @s2, @s3) and post_type = @type order by ID",
		db.table("posts"),
	), sql.Named("s1", statusPublish), sql.Named("s2", statusDraft), sql.Named("s3", statusPrivate), sql.Named("type", postTypePost))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *database) getPostExport(id int) (*wpPost, error) {
	row, err := db.queryRow(fmt.Sprintf(
		"select p.ID, p.post_title, p.post_date, p.post_date_gmt, p.post_status, p.post_excerpt, p.post_name, p.guid, p.post_content, coalesce(u.display_name, '') from %s p left join %s u on u.ID = p.post_author where p.ID = @id",
		db.table("posts"), db.table("users"),
	), sql.Named("id", id))
	if err != nil {
		return nil, err
	}
	p := &wpPost{}
	err = row.Scan(&p.ID, &p.Title, &p.Date, &p.DateGmt, &p.Status, &p.Excerpt, &p.Slug, &p.Permalink, &p.Content, &p.Author)
	if err == sql.ErrNoRows {
		return nil, errPostNotFound
	} else if err != nil {
		return nil, err
	}
	if p.Meta, err = db.postMeta(id); err != nil {
		return nil, err
	}
	if p.Taxonomies, err = db.postTerms(id); err != nil {
		return nil, err
	}
	if p.FeaturedImage, err = db.featuredImagePath(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (db *database) postMeta(id int) (map[string][]string, error) {
	rows, err := db.query(fmt.Sprintf(
		"select meta_key, meta_value from %s where post_id = @id order by meta_id",
		db.table("postmeta"),
	), sql.Named("id", id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	meta := map[string][]string{}
	for rows.Next() {
		var key, value string
		if err = rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		meta[key] = append(meta[key], value)
	}
	return meta, rows.Err()
}

func (db *database) postTerms(id int) (map[string][]string, error) {
	rows, err := db.query(fmt.Sprintf(
		"select tt.taxonomy, t.name from %s tr join %s tt on tt.term_taxonomy_id = tr.term_taxonomy_id join %s t on t.term_id = tt.term_id where tr.object_id = @id order by t.term_id",
		db.table("term_relationships"), db.table("term_taxonomy"), db.table("terms"),
	), sql.Named("id", id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taxonomies := map[string][]string{}
	for rows.Next() {
		var taxonomy, name string
		if err = rows.Scan(&taxonomy, &name); err != nil {
			return nil, err
		}
		taxonomies[taxonomy] = append(taxonomies[taxonomy], name)
	}
	return taxonomies, rows.Err()
}

// featuredImagePath resolves the site-relative upload path of the post's
// featured image, empty when none is assigned.
func (db *database) featuredImagePath(p *wpPost) (string, error) {
	thumbnailValues := p.Meta[thumbnailMetaKey]
	if len(thumbnailValues) == 0 {
		return "", nil
	}
	thumbnailID := cast.ToInt(thumbnailValues[0])
	if thumbnailID == 0 {
		return "", nil
	}
	row, err := db.queryRow(fmt.Sprintf(
		"select coalesce(meta_value, '') from %s where post_id = @id and meta_key = @key",
		db.table("postmeta"),
	), sql.Named("id", thumbnailID), sql.Named("key", attachedFileMetaKey))
	if err != nil {
		return "", err
	}
	var file string
	if err = row.Scan(&file); err == sql.ErrNoRows {
		return "", nil
	} else if err != nil {
		return "", err
	}
	if file == "" {
		return "", nil
	}
	return path.Join(uploadsBasePath, file), nil
}
