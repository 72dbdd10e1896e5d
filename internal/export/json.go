package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"triance/backend/internal/domain"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Workouts   []jsonWorkout `json:"workouts"`
}

type jsonWorkout struct {
	ID          string      `json:"id"`
	CreatedTime string      `json:"created_time"`
	WorkoutType string      `json:"workout_type,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	SetCount    int         `json:"set_count"`
	Exercises   []jsonEntry `json:"exercises"`
}

type jsonEntry struct {
	Exercise string    `json:"exercise"`
	Sets     []jsonSet `json:"sets"`
}

type jsonSet struct {
	SetNumber int     `json:"set_number"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

// ToJSON writes the workouts as one indented JSON document.
func ToJSON(w io.Writer, workouts []domain.Workout) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(workouts),
		Workouts:   make([]jsonWorkout, 0, len(workouts)),
	}

	for _, wo := range workouts {
		jw := jsonWorkout{
			ID:          wo.ID.String(),
			CreatedTime: wo.CreatedTime.UTC().Format(time.RFC3339),
			WorkoutType: workoutType(wo),
			Notes:       notes(wo),
			SetCount:    wo.SetCount(),
			Exercises:   make([]jsonEntry, 0, len(wo.LoggedExercises)),
		}
		for _, le := range wo.LoggedExercises {
			entry := jsonEntry{Exercise: exerciseName(le), Sets: make([]jsonSet, 0, len(le.Sets))}
			for _, s := range le.Sets {
				entry.Sets = append(entry.Sets, jsonSet{SetNumber: s.SetNumber, Reps: s.Reps, Weight: s.Weight})
			}
			jw.Exercises = append(jw.Exercises, entry)
		}
		export.Workouts = append(export.Workouts, jw)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func workoutType(w domain.Workout) string {
	if w.WorkoutType == nil {
		return ""
	}
	return w.WorkoutType.String()
}

func notes(w domain.Workout) string {
	if w.Notes == nil {
		return ""
	}
	return *w.Notes
}

func exerciseName(le domain.LoggedExercise) string {
	if le.Exercise == nil {
		return le.ExerciseID.String()
	}
	return le.Exercise.Name
}
