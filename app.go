package main

import (
	"log/slog"
	"sync"

	shutdowner "git.jlel.se/jlelse/go-shutdowner"
	"github.com/yuin/goldmark"
)

type wpExport struct {
	// Config
	cfg *config
	// Database
	db *database
	// Logs
	initLogOnce sync.Once
	logger      *slog.Logger
	logLevel    *slog.LevelVar
	// Content rendering
	initRenderOnce sync.Once
	contentFilters []contentFilter
	md             goldmark.Markdown
	// Shutdown
	shutdown shutdowner.Shutdowner
}
