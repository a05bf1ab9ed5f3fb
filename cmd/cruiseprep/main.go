// Command cruiseprep is the CLI entrypoint for preparing SeaFlow cruise
// folders for storage.
//
// It reads a list of cruise names and, for each cruise directory, extracts
// the day-of-year zip archives, removes macOS metadata, deletes the archives
// and gzips the EVT data files. The first failure stops the batch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/seaflow/cruiseprep/internal/check"
	"github.com/seaflow/cruiseprep/internal/config"
	"github.com/seaflow/cruiseprep/internal/cruise"
	"github.com/seaflow/cruiseprep/internal/display"
	"github.com/seaflow/cruiseprep/internal/logging"
	"github.com/seaflow/cruiseprep/internal/pipeline"
	"github.com/seaflow/cruiseprep/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: no logger yet, so errors go straight to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "cruiseprep: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "cruiseprep: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cruiseprep: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(term.Stdout())

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	if fi, err := os.Stat(cfg.BaseDir); err != nil || !fi.IsDir() {
		log.Error("Base directory not found: %s", cfg.BaseDir)
		return 1
	}

	names, err := cruise.ReadList(cfg.CruiseFile, cfg.CommentPrefix)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("=== cruiseprep v%s (%s) ===", version, commit)
	log.Info("List: %s", cfg.CruiseFile)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be changed")
	} else if err := check.CheckDeps(&cfg); err != nil {
		// Fail before touching any cruise if a tool is missing.
		log.Error("%v", err)
		return 1
	}

	// Cancel on SIGINT/SIGTERM; a running tool is killed with the context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := pipeline.Run(ctx, &cfg, log, names); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}
