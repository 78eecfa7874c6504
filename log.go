package main

import (
	"log/slog"
	"os"
)

func (a *wpExport) initLog() {
	a.initLogOnce.Do(func() {
		a.logLevel = new(slog.LevelVar)
		a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: a.logLevel,
		}))
	})
}

func (a *wpExport) updateLogLevel() {
	a.initLog()
	if a.cfg != nil && a.cfg.Debug {
		a.logLevel.Set(slog.LevelDebug)
	}
}

func (a *wpExport) debug(msg string, args ...any) {
	a.initLog()
	a.logger.Debug(msg, args...)
}

func (a *wpExport) info(msg string, args ...any) {
	a.initLog()
	a.logger.Info(msg, args...)
}

func (a *wpExport) error(msg string, args ...any) {
	a.initLog()
	a.logger.Error(msg, args...)
}
