package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDefaultTestConfig(t *testing.T) *config {
	c := createDefaultConfig()
	c.Db.File = filepath.Join(t.TempDir(), "wordpress.db")
	c.Server.PublicAddress = "https://example.com"
	return c
}

func Test_initConfig(t *testing.T) {
	app := &wpExport{
		cfg: createDefaultTestConfig(t),
	}
	app.cfg.Server.PublicAddress = "https://example.com/"

	err := app.initConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", app.cfg.Server.PublicAddress)
	assert.Equal(t, "example.com", app.cfg.Server.publicHostname)
	assert.Equal(t, "wp_", app.cfg.Db.TablePrefix)
	assert.Equal(t, "wordpress-export.zip", app.cfg.Export.ArchiveName)
	assert.True(t, app.cfg.Export.Comments)
}

func Test_initConfig_missingDatabase(t *testing.T) {
	app := &wpExport{cfg: createDefaultTestConfig(t)}
	app.cfg.Db.File = ""

	err := app.initConfig()
	require.Error(t, err)
}
