package storage

import (
	"context"
	"fmt"

	"github.com/claude/kinetik/internal/analysis"
)

// ProfileSet is the immutable exercise configuration loaded at startup.
type ProfileSet map[analysis.Exercise]analysis.Profile

// Lookup returns the profile for an exercise.
func (ps ProfileSet) Lookup(e analysis.Exercise) (analysis.Profile, bool) {
	p, ok := ps[e]
	return p, ok
}

// LoadProfiles reads all exercise profiles. The set is loaded once at startup
// and treated as immutable for the life of the process; edits to the table
// take effect on restart.
func (db *DB) LoadProfiles(ctx context.Context) (ProfileSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, min_angle, max_angle, debounce_seconds, calibration_frames
		 FROM exercise_profiles`)
	if err != nil {
		return nil, fmt.Errorf("querying exercise profiles: %w", err)
	}
	defer rows.Close()

	set := ProfileSet{}
	for rows.Next() {
		var name string
		var p analysis.Profile
		if err := rows.Scan(&name, &p.MinAngle, &p.MaxAngle, &p.DebounceSeconds, &p.CalibrationFrames); err != nil {
			return nil, fmt.Errorf("scanning exercise profile: %w", err)
		}
		exercise, ok := analysis.ParseExercise(name)
		if !ok {
			return nil, fmt.Errorf("exercise_profiles row %q does not match any supported exercise", name)
		}
		set[exercise] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading exercise profiles: %w", err)
	}
	return set, nil
}
