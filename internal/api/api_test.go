package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triance/backend/internal/service"
	"triance/backend/internal/storage"
	"triance/backend/internal/testutil"
)

type memoryFiles struct {
	objects map[string][]byte
}

func (m *memoryFiles) PutObject(_ context.Context, key, _ string, data []byte) error {
	m.objects[key] = data
	return nil
}

func (m *memoryFiles) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}

func (m *memoryFiles) DeleteObject(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

type testServer struct {
	router *gin.Engine
}

// newTestServer wires the full router over a fresh sqlite store. files may
// be nil to run without object storage.
func newTestServer(t *testing.T, files storage.FileStorage) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.Store(t)
	log := testutil.Logger(t)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	users := service.NewUserService(store.Users, log)
	workouts := service.NewWorkoutService(store.Workouts, store.Users, store.Exercises, log, service.WithClock(now))
	svc := Services{
		Users:           users,
		Exercises:       service.NewExerciseService(store.Exercises, log),
		Workouts:        workouts,
		LoggedExercises: service.NewLoggedExerciseService(store.LoggedExercises, store.Exercises, log),
		Stats:           service.NewStatsService(store.Stats, log),
		Export:          service.NewExportService(workouts, users, files, time.Minute, log),
	}
	return &testServer{router: NewRouter(svc, []string{"http://localhost:3000"}, log)}
}

// do sends body as JSON; a string body is sent verbatim.
func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// seed registers ana and bo and three exercises, returning exercise ids by name.
func (s *testServer) seed(t *testing.T) map[string]string {
	t.Helper()
	for _, u := range []string{"ana", "bo"} {
		w := s.do(t, http.MethodPost, "/api/v1/users", gin.H{"username": u, "email": u + "@example.com"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	ids := map[string]string{}
	for _, ex := range []gin.H{
		{"name": "Squat", "primary_muscles": []string{"quads"}, "category": "Quads"},
		{"name": "Bench Press", "primary_muscles": []string{"chest"}, "category": "Push"},
		{"name": "Row", "primary_muscles": []string{"back"}, "category": "Pull"},
	} {
		w := s.do(t, http.MethodPost, "/api/v1/exercises", ex)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decode[ExerciseResponse](t, w)
		ids[resp.Name] = resp.ID
	}
	return ids
}

func (s *testServer) createWorkout(t *testing.T, body gin.H) WorkoutResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/workouts", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[WorkoutResponse](t, w)
}

func workoutBody(username string, names ...string) gin.H {
	entries := make([]gin.H, len(names))
	for i, n := range names {
		entries[i] = gin.H{"name": n, "sets": []gin.H{
			{"set_number": 1, "reps": 8, "weight": 60.0},
			{"set_number": 2, "reps": 6, "weight": 70.0},
		}}
	}
	return gin.H{"username": username, "logged_exercises": entries}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, code int, kind, detail string) {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, kind, resp.Error)
	if detail != "" {
		assert.Equal(t, detail, resp.Detail)
	}
}

func TestWelcomeAndPing(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome")

	w = s.do(t, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/workouts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)

	w := s.do(t, http.MethodPost, "/api/v1/users", gin.H{"username": "ana", "email": "x@example.com"})
	assertError(t, w, http.StatusConflict, "conflict", "")

	w = s.do(t, http.MethodPost, "/api/v1/users", gin.H{"username": "cy", "email": "nope"})
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	w = s.do(t, http.MethodGet, "/api/v1/users/bo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bo@example.com", decode[UserResponse](t, w).Email)

	w = s.do(t, http.MethodGet, "/api/v1/users/ghost", nil)
	assertError(t, w, http.StatusNotFound, "not_found", "user 'ghost' not found")

	w = s.do(t, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]UserResponse](t, w), 2)
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	s.createWorkout(t, workoutBody("ana", "Squat", "Row"))

	w := s.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[StatsResponse](t, w)
	assert.EqualValues(t, 2, stats.Users)
	assert.EqualValues(t, 3, stats.Exercises)
	assert.EqualValues(t, 1, stats.Workouts)
	assert.EqualValues(t, 2, stats.LoggedExercises)
	assert.EqualValues(t, 4, stats.LoggedExerciseSets)
	require.NotNil(t, stats.LatestUser)
}

func TestExportEndpoints(t *testing.T) {
	files := &memoryFiles{objects: map[string][]byte{}}
	s := newTestServer(t, files)
	s.seed(t)
	s.createWorkout(t, workoutBody("ana", "Squat"))

	w := s.do(t, http.MethodGet, "/api/v1/users/ana/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ana-workouts.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, 3, strings.Count(w.Body.String(), "\n"))

	w = s.do(t, http.MethodGet, "/api/v1/users/ana/export?format=xml", nil)
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	w = s.do(t, http.MethodGet, "/api/v1/users/ghost/export", nil)
	assertError(t, w, http.StatusNotFound, "not_found", "")

	w = s.do(t, http.MethodPost, "/api/v1/users/ana/exports?format=json", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pub := decode[PublishedExportResponse](t, w)
	assert.True(t, strings.HasPrefix(pub.Key, "exports/ana/"))
	assert.Equal(t, "https://files.test/"+pub.Key, pub.URL)
	assert.Contains(t, files.objects, pub.Key)
}

func TestPublishWithoutStorage(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)

	w := s.do(t, http.MethodPost, "/api/v1/users/ana/exports", nil)
	assertError(t, w, http.StatusServiceUnavailable, errStorageUnavailable, "")
}
