package main

import (
	"flag"
	"io"
	"os"
)

func main() {
	// Command line flags
	configfile := flag.String("config", "", "use a specific config file")
	flag.Parse()

	app := &wpExport{}

	// Initialize config
	if err := app.loadConfigFile(*configfile); err != nil {
		app.logErrAndQuit("Failed to load config file", "err", err)
		return
	}
	if err := app.initConfig(); err != nil {
		app.logErrAndQuit("Failed to init config", "err", err)
		return
	}

	// Open the site database
	if err := app.initDatabase(); err != nil {
		app.logErrAndQuit("Failed to open database", "err", err)
		return
	}

	args := flag.Args()

	// Serve mode: export is triggered per request and delivered as a
	// download
	if len(args) >= 1 && args[0] == "serve" {
		if err := app.startServer(); err != nil {
			app.logErrAndQuit("Failed to start server", "err", err)
			return
		}
		app.shutdown.Wait()
		return
	}

	// Batch mode: run a full export now, archive bytes go to stdout.
	// An optional argument overrides the temporary working directory
	// root.
	dir := ""
	if len(args) >= 1 && args[0] == "export" {
		args = args[1:]
	}
	if len(args) >= 1 {
		dir = args[0]
	}
	zipPath, cleanup, err := app.runExport(dir)
	if err != nil {
		cleanup()
		app.logErrAndQuit("Export failed", "err", err)
		return
	}
	if err = streamFile(zipPath, os.Stdout); err != nil {
		cleanup()
		app.logErrAndQuit("Failed to write archive", "err", err)
		return
	}
	cleanup()
	app.shutdown.ShutdownAndWait()
}

func streamFile(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func (a *wpExport) logErrAndQuit(msg string, args ...any) {
	a.error(msg, args...)
	a.shutdown.ShutdownAndWait()
	os.Exit(1)
}
