package main

import (
	"database/sql"
	"fmt"

	"github.com/lopezator/migrator"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/singleflight"
)

type database struct {
	db             *sql.DB
	prefix         string
	statementCache map[string]*sql.Stmt
	sg             singleflight.Group
}

func (a *wpExport) initDatabase() (err error) {
	a.db, err = a.openDatabase(a.cfg.Db.File, a.cfg.Db.TablePrefix)
	if err != nil {
		return err
	}
	a.shutdown.Add(func() {
		_ = a.db.close()
		a.info("Closed database")
	})
	return nil
}

func (a *wpExport) openDatabase(file, prefix string) (*database, error) {
	sqlDb, err := sql.Open("sqlite3", file+"?mode=rwc&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	sqlDb.SetMaxOpenConns(1)
	if err = sqlDb.Ping(); err != nil {
		return nil, err
	}
	db := &database{
		db:             sqlDb,
		prefix:         prefix,
		statementCache: map[string]*sql.Stmt{},
	}
	// The site database is treated as read-only, so the schema only gets
	// created when the file doesn't contain a posts table yet (fresh file
	// for tests or trial runs).
	hasPosts, err := db.hasTable(db.table("posts"))
	if err != nil {
		return nil, err
	}
	if !hasPosts {
		if err = db.migrate(); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (db *database) table(name string) string {
	return db.prefix + name
}

func (db *database) hasTable(name string) (bool, error) {
	row, err := db.queryRow("select exists(select 1 from sqlite_master where type = 'table' and name = @name)", sql.Named("name", name))
	if err != nil {
		return false, err
	}
	exists := 0
	if err = row.Scan(&exists); err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (db *database) migrate() error {
	m, err := migrator.New(
		migrator.Migrations(
			&migrator.Migration{
				Name: "00001",
				Func: func(tx *sql.Tx) error {
					_, err := tx.Exec(fmt.Sprintf(`
					CREATE TABLE %sposts (ID integer primary key autoincrement, post_author integer not null default 0, post_date text not null default '0000-00-00 00:00:00', post_date_gmt text not null default '0000-00-00 00:00:00', post_content text not null default '', post_title text not null default '', post_excerpt text not null default '', post_status text not null default 'publish', post_name text not null default '', post_type text not null default 'post', guid text not null default '');
					CREATE TABLE %spostmeta (meta_id integer primary key autoincrement, post_id integer not null, meta_key text, meta_value text);
					CREATE INDEX index_postmeta_post on %spostmeta (post_id);
					CREATE TABLE %susers (ID integer primary key autoincrement, user_login text not null default '', display_name text not null default '');
					CREATE TABLE %scomments (comment_ID integer primary key autoincrement, comment_post_ID integer not null default 0, comment_author text not null default '', comment_author_url text not null default '', comment_date text not null default '0000-00-00 00:00:00', comment_date_gmt text not null default '0000-00-00 00:00:00', comment_content text not null default '', comment_approved text not null default '1', comment_type text not null default '');
					CREATE INDEX index_comments_post on %scomments (comment_post_ID);
					CREATE TABLE %sterms (term_id integer primary key autoincrement, name text not null default '', slug text not null default '');
					CREATE TABLE %sterm_taxonomy (term_taxonomy_id integer primary key autoincrement, term_id integer not null default 0, taxonomy text not null default '');
					CREATE TABLE %sterm_relationships (object_id integer not null default 0, term_taxonomy_id integer not null default 0, primary key (object_id, term_taxonomy_id));
					`,
						db.prefix, db.prefix, db.prefix, db.prefix, db.prefix,
						db.prefix, db.prefix, db.prefix, db.prefix,
					))
					return err
				},
			},
		),
	)
	if err != nil {
		return err
	}
	return m.Migrate(db.db)
}

func (db *database) close() error {
	return db.db.Close()
}

func (db *database) prepare(query string) (*sql.Stmt, error) {
	stmt, err, _ := db.sg.Do(query, func() (any, error) {
		stmt, ok := db.statementCache[query]
		if ok && stmt != nil {
			return stmt, nil
		}
		stmt, err := db.db.Prepare(query)
		if err != nil {
			return nil, err
		}
		db.statementCache[query] = stmt
		return stmt, nil
	})
	if err != nil {
		return nil, err
	}
	return stmt.(*sql.Stmt), nil
}

func (db *database) exec(query string, args ...any) (sql.Result, error) {
	stmt, err := db.prepare(query)
	if err != nil {
		return nil, err
	}
	return stmt.Exec(args...)
}

func (db *database) query(query string, args ...any) (*sql.Rows, error) {
	stmt, err := db.prepare(query)
	if err != nil {
		return nil, err
	}
	return stmt.Query(args...)
}

func (db *database) queryRow(query string, args ...any) (*sql.Row, error) {
	stmt, err := db.prepare(query)
	if err != nil {
		return nil, err
	}
	return stmt.QueryRow(args...), nil
}
