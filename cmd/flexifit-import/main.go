package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/flexifit/internal/config"
	"github.com/claude/flexifit/internal/importer"
	"github.com/claude/flexifit/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("path", "", "path to export directory (required)")
	login := flag.String("login", "local", "login name of the user to import for")
	displayName := flag.String("name", "", "display name when the user is created")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: flexifit-import -config config.yaml -path /path/to/export [-login user@example.com] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*exportPath)
	if err != nil || !info.IsDir() {
		log.Error("export path does not exist or is not a directory", "path", *exportPath)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, no data will be written to the database")
	}

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	name := *displayName
	if name == "" {
		name = *login
	}
	userID, err := db.GetOrCreateUser(ctx, *login, name)
	if err != nil {
		log.Error("failed to resolve user", "login", *login, "error", err)
		os.Exit(1)
	}
	log.Info("importing for user", "login", *login, "user_id", userID)

	var logID int64
	if !*dryRun {
		logID, err = db.InsertImportLog(ctx, storage.ImportLog{UserID: userID, Source: "directory", Status: "running"})
		if err != nil {
			log.Warn("failed to create import log", "error", err)
		}
	}

	start := time.Now()
	stats, importErr := importer.New(db, log, userID, *dryRun).Import(ctx, *exportPath)

	if logID > 0 {
		finishLog(ctx, db, log, logID, stats, importErr, time.Since(start))
	}

	printStats(stats)
	if importErr != nil {
		log.Error("import failed", "error", importErr)
		os.Exit(1)
	}
	log.Info("import complete")
}

func finishLog(ctx context.Context, db *storage.DB, log *slog.Logger, id int64, stats *importer.Stats, importErr error, elapsed time.Duration) {
	ms := int(elapsed.Milliseconds())
	entry := storage.ImportLog{
		Status:           "success",
		FeedbackReceived: stats.FeedbackReceived,
		FeedbackInserted: stats.FeedbackInserted,
		PlansImported:    stats.PlansImported,
		DurationMs:       &ms,
	}
	if importErr != nil {
		msg := importErr.Error()
		entry.Status = "error"
		entry.ErrorMessage = &msg
	}
	if err := db.UpdateImportLog(ctx, id, entry); err != nil {
		log.Warn("failed to update import log", "id", id, "error", err)
	}
}

func printStats(stats *importer.Stats) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files processed:  %d\n", stats.FilesProcessed)
	fmt.Printf("  Files skipped:    %d\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Profile:          %t\n", stats.ProfileImported)
	fmt.Printf("  Plans:            %d\n", stats.PlansImported)
	fmt.Printf("  Feedback read:    %d\n", stats.FeedbackReceived)
	fmt.Printf("  Inserted:         %d\n", stats.FeedbackInserted)
	fmt.Printf("  Duplicates:       %d\n", stats.FeedbackDuplicated)
	fmt.Printf("  Rejected:         %d\n", stats.FeedbackRejected)
	fmt.Println()
}
