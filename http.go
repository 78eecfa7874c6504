package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/timmc/wordpress-exporter/pkgs/contenttype"
)

const contentType = "Content-Type"

func (a *wpExport) startServer() error {
	r := chi.NewRouter()
	r.Get("/export", a.serveExport)
	s := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 1 * time.Minute,
		ReadTimeout:       5 * time.Minute,
		// The export runs inside the request, give big sites time
		WriteTimeout: 30 * time.Minute,
	}
	a.shutdown.Add(shutdownServer(s))
	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	a.info("Listening", "addr", listener.Addr().String())
	if err = s.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func shutdownServer(s *http.Server) func() {
	return func() {
		toc, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(toc)
	}
}

// serveExport runs a full export and streams the archive. Temporary
// artifacts are removed whether or not delivery succeeds.
func (a *wpExport) serveExport(w http.ResponseWriter, r *http.Request) {
	zipPath, cleanup, err := a.runExport("")
	defer cleanup()
	if err != nil {
		a.error("Export failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	f, err := os.Open(zipPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set(contentType, contenttype.ZIP)
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.cfg.Export.ArchiveName+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(stat.Size(), 10))
	_, _ = io.Copy(w, f)
}
