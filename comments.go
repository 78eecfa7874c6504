package main

import (
	"database/sql"
	"fmt"
)

type wpComment struct {
	ID        int
	PostID    int
	Type      string
	DateGmt   string
	Author    string
	AuthorURL string
	Content   string
}

// fileType returns the comment type tag used in file names. WordPress
// stores regular comments with an empty type.
func (c *wpComment) fileType() string {
	return defaultIfEmpty(c.Type, "comment")
}

func (db *database) getCommentsForPost(postID int) ([]*wpComment, error) {
	rows, err := db.query(fmt.Sprintf(
		"select comment_ID, comment_post_ID, comment_type, comment_date_gmt, comment_author, comment_author_url, comment_content from %s where comment_post_ID = @id order by comment_date_gmt, comment_ID",
		db.table("comments"),
	), sql.Named("id", postID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := []*wpComment{}
	for rows.Next() {
		c := &wpComment{}
		if err = rows.Scan(&c.ID, &c.PostID, &c.Type, &c.DateGmt, &c.Author, &c.AuthorURL, &c.Content); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
