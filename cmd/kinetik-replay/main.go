package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/kinetik/internal/analysis"
	"github.com/claude/kinetik/internal/config"
	"github.com/claude/kinetik/internal/replay"
	"github.com/claude/kinetik/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	recordingsPath := flag.String("path", "", "path to directory of .jsonl recordings (required)")
	exerciseName := flag.String("exercise", "", "exercise to analyze the recordings as (required)")
	stateDir := flag.String("state-dir", "", "skip-state directory (default ~/.kinetik-replay)")
	force := flag.Bool("force", false, "replay recordings even if already processed")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *recordingsPath == "" || *exerciseName == "" {
		fmt.Fprintf(os.Stderr, "Usage: kinetik-replay -config config.yaml -path /recordings -exercise \"shoulder flexion\" [-force]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	exercise, ok := analysis.ParseExercise(*exerciseName)
	if !ok {
		log.Error("unknown exercise", "exercise", *exerciseName)
		os.Exit(1)
	}

	info, err := os.Stat(*recordingsPath)
	if err != nil || !info.IsDir() {
		log.Error("recordings path does not exist or is not a directory", "path", *recordingsPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect database for the exercise profile
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	profiles, err := db.LoadProfiles(ctx)
	if err != nil {
		log.Error("failed to load exercise profiles", "error", err)
		os.Exit(1)
	}
	profile, ok := profiles.Lookup(exercise)
	if !ok {
		log.Error("no profile configured", "exercise", *exerciseName)
		os.Exit(1)
	}

	// Open state database
	dir := *stateDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to determine home directory", "error", err)
			os.Exit(1)
		}
		dir = filepath.Join(homeDir, ".kinetik-replay")
	}
	state, err := replay.OpenStateDB(dir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Run replay
	runner := replay.New(state, exercise, profile, *force, log)
	stats, err := runner.Run(ctx, *recordingsPath)
	if err != nil {
		log.Error("replay failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("replay complete")
}

func printStats(log *slog.Logger, stats *replay.Stats) {
	log.Info("replay stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"total_reps", stats.TotalReps,
	)
	for _, f := range stats.Files {
		log.Info("recording",
			"path", f.Path,
			"frames", f.Frames,
			"reps", f.Reps,
			"partial_buffer", f.PartialRepBuffer,
			"range_min", f.DynamicMinAngle,
			"range_max", f.DynamicMaxAngle,
			"mean_accuracy", f.MeanAccuracy,
			"side", f.Side,
		)
	}
}
