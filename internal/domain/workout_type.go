package domain

import "strings"

// WorkoutType is the closed set of workout/exercise classification tags.
type WorkoutType string

const (
	WorkoutTypePush       WorkoutType = "Push"
	WorkoutTypePull       WorkoutType = "Pull"
	WorkoutTypeQuads      WorkoutType = "Quads"
	WorkoutTypeHamstrings WorkoutType = "Hamstrings"
	WorkoutTypeCore       WorkoutType = "Core"
	WorkoutTypeCardio     WorkoutType = "Cardio"
	WorkoutTypeFullBody   WorkoutType = "Full Body"
)

var workoutTypes = []WorkoutType{
	WorkoutTypePush,
	WorkoutTypePull,
	WorkoutTypeQuads,
	WorkoutTypeHamstrings,
	WorkoutTypeCore,
	WorkoutTypeCardio,
	WorkoutTypeFullBody,
}

// WorkoutTypes returns every tag in declaration order.
func WorkoutTypes() []WorkoutType {
	out := make([]WorkoutType, len(workoutTypes))
	copy(out, workoutTypes)
	return out
}

// ParseWorkoutType maps free text onto the tag set. Case, whitespace, '_' and
// '-' are ignored, so "push", "PUSH" and "full_body" all resolve. The second
// result is false for anything outside the set.
func ParseWorkoutType(s string) (WorkoutType, bool) {
	key := normalizeTag(s)
	if key == "" {
		return "", false
	}
	for _, t := range workoutTypes {
		if normalizeTag(string(t)) == key {
			return t, true
		}
	}
	return "", false
}

func (t WorkoutType) Valid() bool {
	_, ok := ParseWorkoutType(string(t))
	return ok && string(t) != ""
}

func (t WorkoutType) String() string { return string(t) }

func normalizeTag(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
