package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sparse struct {
	Notes Optional[*string] `json:"notes"`
	Reps  Optional[int]     `json:"reps"`
}

func TestOptionalTracksPresence(t *testing.T) {
	var s sparse
	require.NoError(t, json.Unmarshal([]byte(`{"reps": 8}`), &s))

	assert.False(t, s.Notes.Set)
	reps, ok := s.Reps.Get()
	assert.True(t, ok)
	assert.Equal(t, 8, reps)
}

func TestOptionalExplicitNull(t *testing.T) {
	var s sparse
	require.NoError(t, json.Unmarshal([]byte(`{"notes": null}`), &s))

	assert.True(t, s.Notes.Set)
	assert.Nil(t, s.Notes.Value)
}

func TestOptionalMarshal(t *testing.T) {
	b, err := json.Marshal(sparse{Reps: Some(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes": null, "reps": 3}`, string(b))
}
