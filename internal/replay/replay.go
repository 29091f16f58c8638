package replay

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/claude/kinetik/internal/analysis"
)

// FileStats summarizes one replayed recording.
type FileStats struct {
	Path             string
	Frames           int
	Reps             int
	PartialRepBuffer float64
	DynamicMinAngle  float64
	DynamicMaxAngle  float64
	MeanAccuracy     float64
	Side             analysis.Side
}

// Stats tracks replay progress across a directory.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int
	TotalReps      int
	Files          []FileStats
}

// Runner replays JSONL recordings through the analysis engine for a fixed
// exercise and profile.
type Runner struct {
	state    *StateDB
	exercise analysis.Exercise
	profile  analysis.Profile
	force    bool
	log      *slog.Logger
	stats    Stats
}

// New creates a Runner. When force is set, the skip-state DB is consulted
// for bookkeeping only and every recording replays.
func New(state *StateDB, exercise analysis.Exercise, profile analysis.Profile, force bool, log *slog.Logger) *Runner {
	return &Runner{state: state, exercise: exercise, profile: profile, force: force, log: log}
}

// Run replays every .jsonl recording under dir, in path order. Files already
// recorded in the state DB with the same size and hash are skipped unless
// the runner was created with force. Individual file failures are counted
// and logged, not fatal.
func (r *Runner) Run(ctx context.Context, dir string) (*Stats, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".jsonl") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return &r.stats, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return &r.stats, err
		}
		if err := r.replayFile(dir, path); err != nil {
			r.stats.FilesErrored++
			r.log.Error("replay failed", "path", path, "error", err)
		}
	}
	return &r.stats, nil
}

func (r *Runner) replayFile(dir, path string) error {
	relPath, err := filepath.Rel(dir, path)
	if err != nil {
		relPath = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return err
	}

	if !r.force {
		done, err := r.state.IsReplayed(relPath, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state: %w", err)
		}
		if done {
			r.stats.FilesSkipped++
			r.log.Debug("already replayed", "path", relPath)
			return nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	frames, err := ReadRecording(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading recording: %w", err)
	}

	fs := ReplayFrames(frames, r.exercise, r.profile, r.log)
	fs.Path = relPath

	if err := r.state.MarkReplayed(relPath, info.Size(), hash); err != nil {
		return fmt.Errorf("marking replayed: %w", err)
	}

	r.stats.FilesProcessed++
	r.stats.TotalReps += fs.Reps
	r.stats.Files = append(r.stats.Files, fs)
	r.log.Info("recording replayed",
		"path", relPath,
		"frames", fs.Frames,
		"reps", fs.Reps,
		"mean_accuracy", fs.MeanAccuracy,
	)
	return nil
}

// recordedClock feeds the analyzer the capture timestamps instead of wall
// time, so debounce decisions replay exactly as they happened live.
type recordedClock struct {
	now time.Time
}

func (c *recordedClock) Now() time.Time { return c.now }

func (c *recordedClock) set(unixSec float64) {
	c.now = time.Unix(0, int64(unixSec*float64(time.Second)))
}

// ReplayFrames runs a frame sequence through a fresh session and summarizes
// the final state. Frames with no joints count as missed detections.
func ReplayFrames(frames []Frame, exercise analysis.Exercise, profile analysis.Profile, log *slog.Logger) FileStats {
	clock := &recordedClock{}
	an := analysis.New(log, analysis.WithClock(clock.Now))

	state := analysis.NewSessionState()
	var accuracySum float64
	var accuracyFrames int

	for _, f := range frames {
		clock.set(f.Timestamp)
		var joints analysis.JointFrame
		if len(f.Joints) > 0 {
			joints = f.Joints
		}
		calibrated := state.Calibrated(profile.CalibrationFrames)
		out := an.Analyze(joints, exercise, state, profile)
		state = out.State
		// Calibration frames and frames with no measurable angle (missed
		// detections, visibility failures) stay out of the accuracy mean;
		// measured zero scores at the range bounds count.
		if calibrated && out.AngleCoords != nil {
			accuracySum += out.AccuracyScore
			accuracyFrames++
		}
	}

	fs := FileStats{
		Frames:           len(frames),
		Reps:             state.Reps,
		PartialRepBuffer: state.PartialRepBuffer,
		DynamicMinAngle:  state.DynamicMinAngle,
		DynamicMaxAngle:  state.DynamicMaxAngle,
		Side:             state.AnalysisSide,
	}
	if accuracyFrames > 0 {
		fs.MeanAccuracy = accuracySum / float64(accuracyFrames)
	}
	return fs
}
