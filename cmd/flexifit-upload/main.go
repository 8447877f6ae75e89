package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/claude/flexifit/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "FlexiFit server URL (e.g. https://flexifit.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("FLEXIFIT_API_KEY"), "API key for the ingest endpoints")
	journalPath := flag.String("path", "", "directory holding feedback journals (.json, .csv, optionally .gz/.zst)")
	stateDir := flag.String("state-dir", "", "where upload state is kept (default ~/.flexifit-upload)")
	dryRun := flag.Bool("dry-run", false, "parse journals but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("flexifit-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *journalPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: flexifit-upload -server <URL> -api-key <key> -path <journal dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	info, err := os.Stat(*journalPath)
	if err != nil || !info.IsDir() {
		log.Error("journal directory not found", "path", *journalPath)
		os.Exit(1)
	}

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".flexifit-upload")
	}

	state, err := upload.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	var sender upload.Sender
	if *dryRun {
		log.Info("DRY RUN mode, files will be parsed but not sent")
	} else {
		sender = upload.NewClient(*serverURL, *apiKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := upload.New(sender, state, *journalPath, *dryRun, log).Run(ctx)
	printStats(stats)
	if err != nil {
		log.Error("upload failed", "error", err)
		os.Exit(1)
	}
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Entries sent:     %d\n", stats.EntriesSent)
	fmt.Printf("  Inserted:         %d\n", stats.EntriesInserted)
	fmt.Printf("  Duplicates:       %d\n", stats.EntriesDuplicate)
	fmt.Printf("  Rejected:         %d\n", stats.EntriesRejected)
	fmt.Println()
}
