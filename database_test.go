package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_openDatabase(t *testing.T) {
	app := &wpExport{cfg: createDefaultTestConfig(t)}
	require.NoError(t, app.initConfig())

	db, err := app.openDatabase(app.cfg.Db.File, "wp_")
	require.NoError(t, err)

	hasPosts, err := db.hasTable("wp_posts")
	require.NoError(t, err)
	assert.True(t, hasPosts)
	hasOther, err := db.hasTable("wp_unknown")
	require.NoError(t, err)
	assert.False(t, hasOther)
	require.NoError(t, db.close())

	// Reopening an initialized database must not migrate again
	db, err = app.openDatabase(app.cfg.Db.File, "wp_")
	require.NoError(t, err)
	require.NoError(t, db.close())
}

func Test_database_statementCache(t *testing.T) {
	app := &wpExport{cfg: createDefaultTestConfig(t)}
	require.NoError(t, app.initConfig())

	db, err := app.openDatabase(app.cfg.Db.File, "wp_")
	require.NoError(t, err)
	defer db.close()

	first, err := db.prepare("select 1")
	require.NoError(t, err)
	second, err := db.prepare("select 1")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func Test_database_tablePrefix(t *testing.T) {
	app := &wpExport{cfg: createDefaultTestConfig(t)}
	app.cfg.Db.File = filepath.Join(t.TempDir(), "custom.db")
	require.NoError(t, app.initConfig())

	db, err := app.openDatabase(app.cfg.Db.File, "site2_")
	require.NoError(t, err)
	defer db.close()

	hasPosts, err := db.hasTable("site2_posts")
	require.NoError(t, err)
	assert.True(t, hasPosts)

	ids, err := db.postIDsToExport()
	require.NoError(t, err)
	assert.Empty(t, ids)
}
