package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExercisePlan is a rehabilitation plan for one ailment.
type ExercisePlan struct {
	ID              uuid.UUID      `json:"id"`
	Ailment         string         `json:"ailment"`
	DifficultyLevel string         `json:"difficulty_level"`
	DurationWeeks   int            `json:"duration_weeks"`
	Exercises       []PlanExercise `json:"exercises"`
}

// PlanExercise is one prescribed exercise within a plan.
type PlanExercise struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetReps  int    `json:"target_reps"`
	Sets        int    `json:"sets"`
	RestSeconds int    `json:"rest_seconds"`
}

// GetPlan returns the plan for an ailment (case-insensitive), or ErrNotFound.
func (db *DB) GetPlan(ctx context.Context, ailment string) (*ExercisePlan, error) {
	plan := &ExercisePlan{}
	err := db.Pool.QueryRow(ctx,
		`SELECT id, ailment, difficulty_level, duration_weeks
		 FROM exercise_plans WHERE ailment = $1`,
		strings.ToLower(strings.TrimSpace(ailment)),
	).Scan(&plan.ID, &plan.Ailment, &plan.DifficultyLevel, &plan.DurationWeeks)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan for %q: %w", ailment, err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT name, description, target_reps, sets, rest_seconds
		 FROM plan_exercises WHERE plan_id = $1 ORDER BY position`,
		plan.ID)
	if err != nil {
		return nil, fmt.Errorf("querying plan exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pe PlanExercise
		if err := rows.Scan(&pe.Name, &pe.Description, &pe.TargetReps, &pe.Sets, &pe.RestSeconds); err != nil {
			return nil, fmt.Errorf("scanning plan exercise: %w", err)
		}
		plan.Exercises = append(plan.Exercises, pe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading plan exercises: %w", err)
	}
	return plan, nil
}

// ListAilments returns all ailments that have a plan, for 404 hints and the
// MCP catalog.
func (db *DB) ListAilments(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT ailment FROM exercise_plans ORDER BY ailment`)
	if err != nil {
		return nil, fmt.Errorf("querying ailments: %w", err)
	}
	defer rows.Close()

	var ailments []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scanning ailment: %w", err)
		}
		ailments = append(ailments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading ailments: %w", err)
	}
	return ailments, nil
}
