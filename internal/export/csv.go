package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"triance/backend/internal/domain"
)

var csvHeader = []string{"Workout ID", "Created", "Type", "Notes", "Exercise", "Set", "Reps", "Weight"}

// ToCSV writes one row per set, in workout, entry and set order.
func ToCSV(w io.Writer, workouts []domain.Workout) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, wo := range workouts {
		created := wo.CreatedTime.UTC().Format(time.RFC3339)
		for _, le := range wo.LoggedExercises {
			for _, s := range le.Sets {
				row := []string{
					wo.ID.String(),
					created,
					workoutType(wo),
					notes(wo),
					exerciseName(le),
					strconv.Itoa(s.SetNumber),
					strconv.Itoa(s.Reps),
					strconv.FormatFloat(s.Weight, 'f', -1, 64),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
